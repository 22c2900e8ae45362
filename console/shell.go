package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	linerpkg "github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// shellCmd runs the interactive console: a liner-backed REPL that
// splits input shell-style and dispatches it through the same cobra
// command tree as the one-shot CLI.
func shellCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("shell requires a TTY")
			}

			line := linerpkg.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			prompt := colorize("stagecraft >> ", colorBrightRed)
			for {
				input, err := line.Prompt(prompt)
				if err == linerpkg.ErrPromptAborted {
					continue
				}
				if err == io.EOF {
					fmt.Println()
					return nil
				}
				if err != nil {
					return err
				}

				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				line.AppendHistory(input)

				switch input {
				case "exit", "quit":
					return nil
				}

				parts, err := shellquote.Split(input)
				if err != nil {
					logrus.Errorf("parse: %v", err)
					continue
				}
				if parts[0] == "shell" {
					// no nested consoles
					continue
				}

				root.SetArgs(parts)
				if err := root.Execute(); err != nil {
					logrus.Errorf("%v", err)
				}
			}
		},
	}
}

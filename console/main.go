package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// consoleFormatter is a compact logrus formatter for operator-facing
// output: a level symbol, a timestamp, and the message.
type consoleFormatter struct{}

func (f *consoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var symbol, color string
	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		symbol, color = "[!]", colorBrightRed
	case logrus.WarnLevel:
		symbol, color = "[-]", colorYellow
	case logrus.DebugLevel, logrus.TraceLevel:
		symbol, color = "[.]", colorDarkGray
	default:
		symbol, color = "[*]", colorCyan
	}

	ts := entry.Time.Format("15:04:05")
	var fields string
	if len(entry.Data) > 0 {
		parts := make([]string, 0, len(entry.Data))
		for k, v := range entry.Data {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
		fields = " " + colorize(strings.Join(parts, " "), colorDarkGray)
	}

	line := fmt.Sprintf("%s %s %s%s\n",
		colorize(symbol, color), colorize(ts, colorDarkGray), entry.Message, fields)
	return []byte(line), nil
}

var (
	flagDBPath  string
	flagVerbose bool
)

func main() {
	logrus.SetFormatter(&consoleFormatter{})

	root := &cobra.Command{
		Use:   "stagecraft",
		Short: "Payload generation and composition console",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&flagDBPath, "db", "stagecraft.db", "path to the sqlite store")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		payloadsCmd(),
		generateCmd(),
		encodersCmd(),
		nopsCmd(),
		sessionsCmd(),
		buildsCmd(),
		shellCmd(root),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/stevedomin/termtable"
)

const (
	colorReset     = "\033[0m"
	colorYellow    = "33"
	colorCyan      = "36"
	colorBrightRed = "91"
	colorDarkGray  = "90"
)

func colorize(s string, color string) string {
	return "\033[" + color + "m" + s + colorReset
}

// printTable renders rows under colored headers, or a placeholder
// when there is nothing to show.
func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println(colorize("(none)", colorDarkGray))
		return
	}
	t := termtable.NewTable(nil, &termtable.TableOptions{
		Padding:      2,
		UseSeparator: true,
	})
	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colorize(h, colorCyan)
	}
	t.SetHeader(colored)
	for _, row := range rows {
		t.AddRow(row)
	}
	fmt.Println(t.Render())
}

// hexDump renders a buffer as C-style hex escapes, 16 bytes per line.
func hexDump(buf []byte) string {
	out := ""
	for i, b := range buf {
		if i%16 == 0 {
			if i > 0 {
				out += "\n"
			}
		}
		out += fmt.Sprintf("\\x%02x", b)
	}
	return out + "\n"
}

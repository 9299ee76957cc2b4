package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the modelo ASCII art banner to w.
func PrintBanner(w io.Writer, opts ...termenv.OutputOption) {
	out := termenv.NewOutput(w, opts...)
	lines := []struct {
		text  string
		color string
	}{
		{"                      _      _       ", "#818cf8"},
		{"  _ __ ___   ___   __| | ___| | ___  ", "#a78bfa"},
		{" | '_ ` _ \\ / _ \\ / _` |/ _ \\ |/ _ \\ ", "#c084fc"},
		{" | | | | | | (_) | (_| |  __/ | (_) |", "#e879f9"},
		{" |_| |_| |_|\\___/ \\__,_|\\___|_|\\___/ ", "#f472b6"},
	}

	fmt.Fprintln(out)
	for _, l := range lines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(out)
}

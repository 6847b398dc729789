package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"                  _       _     ", "#34d399"},
	{"  _ __   ___ _ __ | | __ _| |__  ", "#2dd4bf"},
	{" | '_ \\ / _ \\ '_ \\| |/ _` | '_ \\ ", "#22d3ee"},
	{" | |_) |  __/ |_) | | (_| | |_) |", "#38bdf8"},
	{" | .__/ \\___| .__/|_|\\__,_|_.__/ ", "#60a5fa"},
	{" |_|        |_|                  ", "#818cf8"},
}

// PrintBanner writes the peplab banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  peptide design navigator "+version).Faint())
	fmt.Fprintln(w)
}

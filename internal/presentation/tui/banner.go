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
	{`   ___ __ _ _ ____   ____ _ ___ ___ `, "#34d399"},
	{`  / __/ _' | '_ \ \ / / _' / __/ __|`, "#2dd4bf"},
	{` | (_| (_| | | | \ V / (_| \__ \__ \`, "#22d3ee"},
	{`  \___\__,_|_| |_|\_/ \__,_|___/___/`, "#38bdf8"},
}

// PrintBanner writes the canvass banner, colored when w is a capable terminal.
func PrintBanner(w io.Writer, subtitle string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	if subtitle != "" {
		fmt.Fprintln(w, out.String("  "+subtitle).Faint())
	}
	fmt.Fprintln(w)
}

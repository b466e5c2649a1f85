package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the RoboFSM banner. Colors are dropped when w is not a terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`  ____       _           _____ ____  __  __ `, "#34d399"},
		{` |  _ \ ___ | |__   ___ |  ___/ ___||  \/  |`, "#2dd4bf"},
		{` | |_) / _ \| '_ \ / _ \| |_  \___ \| |\/| |`, "#22d3ee"},
		{` |  _ < (_) | |_) | (_) |  _|  ___) | |  | |`, "#38bdf8"},
		{` |_| \_\___/|_.__/ \___/|_|   |____/|_|  |_|`, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

package tui

import (
	"io"
	"os"

	"github.com/aretw0/robofsm/internal/presentation/graph"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsInteractive reports whether r is a terminal a user can type into.
func IsInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Marks returns the final-state marks colored for w: green check, red cross.
func Marks(w io.Writer) graph.Marks {
	out := termenv.NewOutput(w)
	return graph.Marks{
		Success: out.String(graph.DefaultMarks.Success).Foreground(out.Color("#22c55e")).String(),
		Failure: out.String(graph.DefaultMarks.Failure).Foreground(out.Color("#ef4444")).String(),
	}
}

// Outcome renders "Success" or "Failure" colored for w.
func Outcome(w io.Writer, success bool) string {
	out := termenv.NewOutput(w)
	if success {
		return out.String("Success").Foreground(out.Color("#22c55e")).Bold().String()
	}
	return out.String("Failure").Foreground(out.Color("#ef4444")).Bold().String()
}

package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// NewRenderer returns a function that renders markdown using glamour.
// When styled is false (output is not a terminal) the plain notty style is used.
func NewRenderer(styled bool) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	if styled {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(styles.NoTTYStyle))
	}

	r, err := glamour.NewTermRenderer(opts...)
	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

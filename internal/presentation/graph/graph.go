// Package graph renders behavior graphs: the plain-text listing, an ASCII
// diagram for terminals, Mermaid state diagrams and a JSON view.
package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/robofsm/pkg/domain"
)

// Source is the read-only view renderers need; *robofsm.Machine satisfies it.
type Source interface {
	Initial() *domain.State
	States() []*domain.State
}

// Format selects an export representation.
type Format string

const (
	FormatText    Format = "text"
	FormatMermaid Format = "mermaid"
	FormatJSON    Format = "json"
)

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatMermaid, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want text, mermaid or json)", s)
	}
}

// Write renders g in format f.
func Write(w io.Writer, f Format, name string, g Source) error {
	switch f {
	case FormatText, "":
		return WriteListing(w, g)
	case FormatMermaid:
		_, err := io.WriteString(w, GenerateMermaid(g, nil))
		return err
	case FormatJSON:
		data, err := NewExport(name, g).MarshalIndent()
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteListing writes the deterministic text export: every state in
// registration order with its numbered transitions, then the initial state.
func WriteListing(w io.Writer, g Source) error {
	var sb strings.Builder
	sb.WriteString("=== Finite State Machine Export ===\n\n")
	sb.WriteString("States:\n")
	for _, s := range g.States() {
		fmt.Fprintf(&sb, "  - %s\n", s)
		for i, t := range s.Transitions {
			fmt.Fprintf(&sb, "    Transition %d -> %s (Prob: %s)\n", i+1, t.TargetName(), FormatProbability(t.Probability))
		}
	}
	fmt.Fprintf(&sb, "\nInitial state: %s\n", g.Initial().Name)

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatProbability prints p with at least one decimal (1.0, 0.85).
func FormatProbability(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Events returns the events a transition listens to, or nil for a custom condition.
func Events(t *domain.Transition) []string {
	if ec, ok := t.Condition.(domain.EventCondition); ok {
		return ec.Events
	}
	return nil
}

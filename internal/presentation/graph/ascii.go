package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/robofsm/pkg/domain"
)

// Marks decorate final states in the ASCII diagram.
type Marks struct {
	Success string
	Failure string
}

// DefaultMarks are the plain check and cross.
var DefaultMarks = Marks{Success: "✓", Failure: "✗"}

func (m Marks) of(s *domain.State) string {
	if s.Success {
		return m.Success
	}
	return m.Failure
}

// RenderASCII draws g top to bottom with DefaultMarks.
func RenderASCII(g Source) string {
	return RenderASCIIWith(g, DefaultMarks)
}

// RenderASCIIWith draws the initial state, the intermediate states in
// registration order and the final states, side by side when there are several.
func RenderASCIIWith(g Source, marks Marks) string {
	initial := g.Initial()
	var intermediates, finals []*domain.State
	for _, s := range g.States() {
		switch {
		case s.Final:
			finals = append(finals, s)
		case s != initial:
			intermediates = append(intermediates, s)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  [%s]\n", initial.Name)

	for _, s := range intermediates {
		sb.WriteString("    |\n")
		sb.WriteString("    v\n")
		fmt.Fprintf(&sb, "  [%s]\n", s.Name)
	}

	switch len(finals) {
	case 0:
	case 1:
		sb.WriteString("    |\n")
		sb.WriteString("    v\n")
		fmt.Fprintf(&sb, "  [%s] %s\n", finals[0].Name, marks.of(finals[0]))
	default:
		sb.WriteString("    |\n")
		sb.WriteString("    +---------+\n")
		sb.WriteString("    |         |\n")
		sb.WriteString("    v         v\n")

		success, failure := pick(finals)
		if success != nil && failure != nil {
			fmt.Fprintf(&sb, "  [%s] %s    [%s] %s\n", success.Name, marks.Success, failure.Name, marks.Failure)
			sb.WriteString("  (Success)   (Failure)\n")
		} else {
			parts := make([]string, len(finals))
			for i, s := range finals {
				parts[i] = fmt.Sprintf("[%s] %s", s.Name, marks.of(s))
			}
			fmt.Fprintf(&sb, "  %s\n", strings.Join(parts, "    "))
		}
	}
	return sb.String()
}

func pick(finals []*domain.State) (success, failure *domain.State) {
	for _, s := range finals {
		if s.Success && success == nil {
			success = s
		}
		if !s.Success && failure == nil {
			failure = s
		}
	}
	return success, failure
}

package graph

import (
	"fmt"
	"strings"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 for g.
// It applies semantic styling:
// - Initial: [*] --> state
// - Final: state --> [*], classed success or failure
// - Transition labels: listened events, plus the probability when below 1
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(g Source, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	states := g.States()
	for _, s := range states {
		if id := sanitizeMermaidID(s.Name); id != s.Name {
			fmt.Fprintf(&sb, "    state \"%s\" as %s\n", escapeLabel(s.Name), id)
		}
	}

	fmt.Fprintf(&sb, "    [*] --> %s\n", sanitizeMermaidID(g.Initial().Name))

	var successes, failures []string
	for _, s := range states {
		safeID := sanitizeMermaidID(s.Name)
		for _, t := range s.Transitions {
			if t.Target == nil {
				continue
			}
			fmt.Fprintf(&sb, "    %s --> %s : %s\n", safeID, sanitizeMermaidID(t.Target.Name), transitionLabel(Events(t), t.Probability))
		}
		if s.Final {
			fmt.Fprintf(&sb, "    %s --> [*]\n", safeID)
			if s.Success {
				successes = append(successes, safeID)
			} else {
				failures = append(failures, safeID)
			}
		}
	}

	if len(successes)+len(failures) > 0 {
		sb.WriteString("\n    classDef success fill:#c8e6c9,stroke:#2e7d32,color:#000\n")
		sb.WriteString("    classDef failure fill:#ffcdd2,stroke:#c62828,color:#000\n")
		for _, id := range successes {
			fmt.Fprintf(&sb, "    class %s success\n", id)
		}
		for _, id := range failures {
			fmt.Fprintf(&sb, "    class %s failure\n", id)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		visited := make(map[string]bool)
		for _, name := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(name)
			if safeID != "" && !visited[safeID] && name != overlay.CurrentState {
				visited[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited\n", safeID)
			}
		}
		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current\n", sanitizeMermaidID(overlay.CurrentState))
		}
	}

	return sb.String()
}

func transitionLabel(events []string, probability float64) string {
	label := "*"
	if len(events) > 0 {
		label = strings.Join(events, ", ")
	}
	if probability != 1 {
		label += fmt.Sprintf(" (p=%s)", FormatProbability(probability))
	}
	return escapeLabel(label)
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, ":", "#58;")
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

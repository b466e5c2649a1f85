package graph

import (
	"encoding/json"

	"github.com/aretw0/robofsm/pkg/domain"
)

// Export is the JSON view of a graph.
type Export struct {
	Name    string      `json:"name,omitempty"`
	Initial string      `json:"initial"`
	Current string      `json:"current,omitempty"`
	States  []StateView `json:"states"`
}

// StateView is one state of an Export.
type StateView struct {
	Name        string           `json:"name"`
	Final       bool             `json:"final"`
	Success     bool             `json:"success"`
	Transitions []TransitionView `json:"transitions,omitempty"`
}

// TransitionView is one transition of an Export. On is empty for custom conditions.
type TransitionView struct {
	To          string   `json:"to"`
	On          []string `json:"on,omitempty"`
	Custom      bool     `json:"custom,omitempty"`
	Probability float64  `json:"probability"`
}

// NewExport builds the JSON view of g. Current is filled when g exposes it.
func NewExport(name string, g Source) Export {
	e := Export{Name: name, Initial: g.Initial().Name}
	if c, ok := g.(interface{ Current() *domain.State }); ok {
		e.Current = c.Current().Name
	}
	for _, s := range g.States() {
		sv := StateView{Name: s.Name, Final: s.Final, Success: s.Success}
		for _, t := range s.Transitions {
			events := Events(t)
			sv.Transitions = append(sv.Transitions, TransitionView{
				To:          t.TargetName(),
				On:          events,
				Custom:      events == nil,
				Probability: t.Probability,
			})
		}
		e.States = append(e.States, sv)
	}
	return e
}

// MarshalIndent encodes the export with two-space indentation.
func (e Export) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

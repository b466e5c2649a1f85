// Package yamlgraph loads behavior graphs declared in YAML files.
//
//	name: pass
//	initial: INITIAL
//	states:
//	  - name: INITIAL
//	    transitions:
//	      - {to: GO_TO_BALL, on: [NEAR_BALL]}
//	  - name: GO_TO_BALL
//	    action: {do: go_to_ball}
//	    transitions:
//	      - {to: SUCCESS, on: [BALL_RECEIVED], probability: 0.85}
//	  - name: SUCCESS
//	    final: true
//	    success: true
//
// States keep their file order. A transition without events is unconditional.
package yamlgraph

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/dsl"
	"gopkg.in/yaml.v3"
)

// ActionResolver turns an action declaration into an entry action.
type ActionResolver func(do string, args map[string]any) (domain.Action, error)

// Graph is the file representation of a behavior graph.
type Graph struct {
	Name    string                 `yaml:"name"`
	Initial string                 `yaml:"initial"`
	Signals *domain.OutcomeSignals `yaml:"signals,omitempty"`
	States  []StateDef             `yaml:"states"`
	Steps   []robofsm.Step         `yaml:"steps,omitempty"`
}

// StateDef declares one state.
type StateDef struct {
	Name        string          `yaml:"name"`
	Final       bool            `yaml:"final,omitempty"`
	Success     bool            `yaml:"success,omitempty"`
	Action      *ActionDef      `yaml:"action,omitempty"`
	Transitions []TransitionDef `yaml:"transitions,omitempty"`
}

// ActionDef names an action and its free-form arguments.
type ActionDef struct {
	Do   string         `yaml:"do"`
	Args map[string]any `yaml:"args,omitempty"`
}

// TransitionDef declares an outgoing edge.
type TransitionDef struct {
	To          string   `yaml:"to"`
	On          []string `yaml:"on,omitempty"`
	Probability *float64 `yaml:"probability,omitempty"`
}

// Definition is a decoded graph ready to be built.
type Definition struct {
	Graph   *Graph
	Builder *dsl.Builder
}

// Build creates a machine named after the graph. Signals declared in the
// file take precedence over any WithSignals in opts.
func (d *Definition) Build(opts ...robofsm.Option) (*robofsm.Machine, error) {
	all := append([]robofsm.Option{robofsm.WithName(d.Graph.Name)}, opts...)
	if d.Graph.Signals != nil {
		all = append(all, robofsm.WithSignals(*d.Graph.Signals))
	}
	return d.Builder.Build(all...)
}

// Decode parses a graph without resolving actions.
func Decode(r io.Reader) (*Graph, error) {
	var g Graph
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty graph definition")
		}
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	return &g, nil
}

// Load decodes a graph and prepares a builder for it. resolve may be nil
// when the graph declares no actions.
func Load(r io.Reader, resolve ActionResolver) (*Definition, error) {
	g, err := Decode(r)
	if err != nil {
		return nil, err
	}
	b, err := g.Builder(resolve)
	if err != nil {
		return nil, fmt.Errorf("graph %q: %w", g.Name, err)
	}
	return &Definition{Graph: g, Builder: b}, nil
}

// LoadFile is Load over a file path.
func LoadFile(path string, resolve ActionResolver) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph: %w", err)
	}
	defer f.Close()
	return Load(f, resolve)
}

// Builder translates the graph into a dsl builder.
func (g *Graph) Builder(resolve ActionResolver) (*dsl.Builder, error) {
	if g.Initial == "" {
		return nil, fmt.Errorf("initial state is required")
	}

	seen := make(map[string]bool, len(g.States))
	for _, s := range g.States {
		if s.Name == "" {
			return nil, fmt.Errorf("state without a name")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateState, s.Name)
		}
		seen[s.Name] = true
	}
	if !seen[g.Initial] {
		return nil, fmt.Errorf("%w: initial %s", domain.ErrStateNotFound, g.Initial)
	}

	b := dsl.New(g.Initial)
	for _, s := range g.States {
		sb := b.Add(s.Name)
		if s.Final {
			sb.Final(s.Success)
		}

		if s.Action != nil {
			if resolve == nil {
				return nil, fmt.Errorf("state %s: action %q declared but no resolver given", s.Name, s.Action.Do)
			}
			action, err := resolve(s.Action.Do, s.Action.Args)
			if err != nil {
				return nil, fmt.Errorf("state %s: %w", s.Name, err)
			}
			sb.Do(action)
		}

		for _, t := range s.Transitions {
			prob := domain.DefaultProbability
			if t.Probability != nil {
				prob = *t.Probability
			}
			if len(t.On) == 0 {
				sb.When(t.To, domain.Always(), prob)
				continue
			}
			sb.OnP(t.To, prob, t.On...)
		}
	}
	return b, nil
}

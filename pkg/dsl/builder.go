package dsl

import (
	"fmt"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	initial string
	order   []string
	states  map[string]*StateBuilder
}

// New creates a new graph builder. The initial state is declared immediately.
func New(initial string) *Builder {
	b := &Builder{
		initial: initial,
		states:  make(map[string]*StateBuilder),
	}
	b.Add(initial)
	return b
}

// Add declares a state in the graph.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Initial returns the name of the initial state.
func (b *Builder) Initial() string {
	return b.initial
}

// Build materializes the states in declaration order, wires transitions and
// returns a machine positioned on the initial state.
func (b *Builder) Build(opts ...robofsm.Option) (*robofsm.Machine, error) {
	states := make(map[string]*domain.State, len(b.order))
	for _, name := range b.order {
		states[name] = b.states[name].state()
	}

	for _, name := range b.order {
		sb := b.states[name]
		for _, e := range sb.edges {
			target, ok := states[e.target]
			if !ok {
				return nil, fmt.Errorf("%w: %s -> %s", domain.ErrDanglingTarget, name, e.target)
			}
			states[name].AddTransition(domain.NewTransition(target, e.condition, e.probability))
		}
	}

	m := robofsm.New(states[b.initial], opts...)
	for _, name := range b.order {
		if name != b.initial {
			m.AddState(states[name])
		}
	}
	return m, nil
}

package domain

import "fmt"

// State is a named node of the behavior graph.
// States are owned by the machine they are registered in; transitions only point at them.
type State struct {
	// Name identifies the state inside its machine.
	Name string

	// Action runs with the triggering event every time an event is processed
	// while this state is current. Optional.
	Action Action

	// Final marks a sink: no outgoing transition is evaluated once entered.
	Final bool

	// Success classifies the terminal outcome. Only meaningful when Final is set.
	Success bool

	// Transitions are evaluated in declaration order.
	Transitions []*Transition
}

// NewState creates a non-final state with an optional entry action.
func NewState(name string, action Action) *State {
	return &State{
		Name:   name,
		Action: action,
	}
}

// NewFinalState creates a terminal state classified as success or failure.
func NewFinalState(name string, success bool) *State {
	return &State{
		Name:    name,
		Final:   true,
		Success: success,
	}
}

// AddTransition appends an outgoing transition.
// The target is not checked against any machine; that is the builder's job.
func (s *State) AddTransition(t *Transition) {
	s.Transitions = append(s.Transitions, t)
}

// Outcome reports how the state terminates a run.
func (s *State) Outcome() Outcome {
	switch {
	case !s.Final:
		return OutcomeNone
	case s.Success:
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}

func (s *State) String() string {
	return fmt.Sprintf("State(%s, final=%t, success=%t)", s.Name, s.Final, s.Success)
}

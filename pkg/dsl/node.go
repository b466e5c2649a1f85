package dsl

import "github.com/aretw0/robofsm/pkg/domain"

type edge struct {
	target      string
	condition   domain.Condition
	probability float64
}

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name    string
	action  domain.Action
	final   bool
	success bool
	edges   []edge
}

// Do sets the entry action.
func (s *StateBuilder) Do(action domain.Action) *StateBuilder {
	s.action = action
	return s
}

// DoFunc sets the entry action from a plain function.
func (s *StateBuilder) DoFunc(fn func(event string)) *StateBuilder {
	return s.Do(domain.ActionFunc(fn))
}

// Final marks the state as terminal, classified as success or failure.
func (s *StateBuilder) Final(success bool) *StateBuilder {
	s.final = true
	s.success = success
	return s
}

// On adds a transition to target taken on any of events, with probability 1.
func (s *StateBuilder) On(target string, events ...string) *StateBuilder {
	return s.OnP(target, domain.DefaultProbability, events...)
}

// OnP adds a transition to target taken on any of events, annotated with probability.
func (s *StateBuilder) OnP(target string, probability float64, events ...string) *StateBuilder {
	return s.When(target, domain.OnEvent(events...), probability)
}

// When adds a transition guarded by an arbitrary condition.
func (s *StateBuilder) When(target string, condition domain.Condition, probability float64) *StateBuilder {
	s.edges = append(s.edges, edge{target: target, condition: condition, probability: probability})
	return s
}

// Go adds an unconditional transition to target.
func (s *StateBuilder) Go(target string) *StateBuilder {
	return s.When(target, domain.Always(), domain.DefaultProbability)
}

func (s *StateBuilder) state() *domain.State {
	if s.final {
		st := domain.NewFinalState(s.name, s.success)
		st.Action = s.action
		return st
	}
	return domain.NewState(s.name, s.action)
}

package domain

import "slices"

// Condition is a pure predicate over the incoming event.
// Implementations must be total and free of side effects.
type Condition interface {
	Match(event string) bool
}

// ConditionFunc adapts a plain function to the Condition interface.
type ConditionFunc func(event string) bool

// Match calls f(event).
func (f ConditionFunc) Match(event string) bool {
	return f(event)
}

// EventCondition matches any of a fixed list of event names.
type EventCondition struct {
	Events []string
}

// OnEvent returns a condition matching exactly the given events.
func OnEvent(events ...string) EventCondition {
	return EventCondition{Events: events}
}

// Match reports whether event is one of c.Events.
func (c EventCondition) Match(event string) bool {
	return slices.Contains(c.Events, event)
}

// Always returns a condition that matches every event.
func Always() Condition {
	return ConditionFunc(func(string) bool { return true })
}

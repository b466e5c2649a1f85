package domain

// Action is a side effect bound to a state. It receives the event being
// processed; its result is never consulted by the engine.
type Action interface {
	Execute(event string)
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(event string)

// Execute calls f(event).
func (f ActionFunc) Execute(event string) {
	f(event)
}

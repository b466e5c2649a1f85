package domain

// EventInfo describes one processed event.
type EventInfo struct {
	Event   string
	State   string  // state current before processing
	Outcome Outcome // classification of the event by the configured signals
}

// TransitionInfo describes a move between two states.
type TransitionInfo struct {
	Event       string
	From        string
	To          string
	Probability float64
	Biased      bool // selected by the outcome bias rather than declaration order
}

// FinalInfo describes the entry into a final state.
type FinalInfo struct {
	Event   string
	State   string
	Success bool
}

// LifecycleHooks are optional observers of the engine.
// They run synchronously inside ProcessEvent and cannot alter selection.
type LifecycleHooks struct {
	OnEvent      func(EventInfo)
	OnTransition func(TransitionInfo)
	OnStall      func(EventInfo)
	OnFinal      func(FinalInfo)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEvent:      chain(h.OnEvent, other.OnEvent),
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnStall:      chain(h.OnStall, other.OnStall),
		OnFinal:      chain(h.OnFinal, other.OnFinal),
	}
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}

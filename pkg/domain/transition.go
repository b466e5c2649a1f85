package domain

// DefaultProbability is the nominal weight of a transition declared without one.
const DefaultProbability = 1.0

// Transition is an edge from the state that owns it to Target.
type Transition struct {
	// Target is a non-owning reference into the machine's state set.
	Target *State

	// Condition decides eligibility for a given event.
	Condition Condition

	// Probability is a nominal weight in [0,1]. The default selection strategy
	// never reads it; it is carried for display and export.
	Probability float64
}

// NewTransition creates a transition towards target.
func NewTransition(target *State, condition Condition, probability float64) *Transition {
	return &Transition{
		Target:      target,
		Condition:   condition,
		Probability: probability,
	}
}

// ShouldTransition reports whether the transition is eligible for event.
func (t *Transition) ShouldTransition(event string) bool {
	return t.Condition.Match(event)
}

// TargetName returns the target's name, or "" for a transition without target.
func (t *Transition) TargetName() string {
	if t.Target == nil {
		return ""
	}
	return t.Target.Name
}

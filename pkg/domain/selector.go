package domain

// Selector picks the transition to follow once the outcome bias did not apply.
// It is called with at least one eligible transition, in declaration order.
type Selector interface {
	Select(eligible []*Transition) *Transition
}

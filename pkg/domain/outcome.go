package domain

import "slices"

// Outcome classifies a state or an event with respect to the end of a run.
type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// OutcomeSignals lists the events that announce a successful or a failed
// attempt. When one of them is processed the engine prefers a final target
// of the matching classification over plain declaration order.
// The two sets are expected to be disjoint; Success is checked first.
type OutcomeSignals struct {
	Success []string `json:"success" yaml:"success" mapstructure:"success"`
	Failure []string `json:"failure" yaml:"failure" mapstructure:"failure"`
}

// DefaultSignals returns the soccer outcome events.
func DefaultSignals() OutcomeSignals {
	return OutcomeSignals{
		Success: []string{EventGoalScored, EventBallReceived, EventBlockingEffective, EventBallIntercepted},
		Failure: []string{EventShotMissed, EventPassFailed, EventBlockingIneffective, EventInterceptionMissed},
	}
}

// Classify reports which set, if any, event belongs to.
func (o OutcomeSignals) Classify(event string) Outcome {
	if slices.Contains(o.Success, event) {
		return OutcomeSuccess
	}
	if slices.Contains(o.Failure, event) {
		return OutcomeFailure
	}
	return OutcomeNone
}

// IsZero reports whether no signal is configured at all.
func (o OutcomeSignals) IsZero() bool {
	return len(o.Success) == 0 && len(o.Failure) == 0
}

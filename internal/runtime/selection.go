package runtime

import (
	"math/rand/v2"

	"github.com/aretw0/robofsm/pkg/domain"
)

// FirstMatch follows the first eligible transition in declaration order.
// Probabilities are ignored. This is the default strategy.
type FirstMatch struct{}

// Select returns eligible[0].
func (FirstMatch) Select(eligible []*domain.Transition) *domain.Transition {
	return eligible[0]
}

// Weighted draws among eligible transitions proportionally to their probability.
// The source is seeded so that runs stay reproducible.
type Weighted struct {
	rng *rand.Rand
}

// NewWeighted creates a weighted selector seeded with seed.
func NewWeighted(seed uint64) *Weighted {
	return &Weighted{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Select draws one transition. Non-positive weights never win; when every
// weight is non-positive the first eligible transition is returned.
func (w *Weighted) Select(eligible []*domain.Transition) *domain.Transition {
	total := 0.0
	for _, t := range eligible {
		if t.Probability > 0 {
			total += t.Probability
		}
	}
	if total <= 0 {
		return eligible[0]
	}

	r := w.rng.Float64() * total
	for _, t := range eligible {
		if t.Probability <= 0 {
			continue
		}
		if r < t.Probability {
			return t
		}
		r -= t.Probability
	}

	// Rounding left r on the boundary: the last positive weight wins.
	for i := len(eligible) - 1; i >= 0; i-- {
		if eligible[i].Probability > 0 {
			return eligible[i]
		}
	}
	return eligible[0]
}

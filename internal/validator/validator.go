// Package validator checks the integrity of a behavior graph before it runs.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/robofsm/pkg/domain"
)

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about a state.
type Issue struct {
	Severity Severity `json:"severity"`
	State    string   `json:"state"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.State, i.Message)
}

// Graph is the read-only view the validator needs; *robofsm.Machine satisfies it.
type Graph interface {
	Initial() *domain.State
	States() []*domain.State
}

// Report lists the issues found, in state registration order.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(sev Severity, state, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, State: state, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the issues that make the graph unusable.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the suspicious but runnable findings.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// OK reports whether no error was found. Warnings do not count.
func (r *Report) OK() bool {
	return len(r.Errors()) == 0
}

// Err joins the errors into one, or returns nil.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(lines, "\n- "))
}

// ErrInvalidGraph is wrapped by Check when the report has errors.
var ErrInvalidGraph = errors.New("invalid graph")

// Check validates g and returns ErrInvalidGraph wrapping the report errors.
func Check(g Graph) error {
	if err := Validate(g).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}
	return nil
}

// Validate walks g from its initial state and reports:
//   - transitions whose target is missing or not registered (error)
//   - transitions without condition (error)
//   - probabilities outside [0,1] (error)
//   - states unreachable from the initial state (warning)
//   - transitions declared on final states, which never fire (warning)
//   - non-final states without outgoing transitions (warning)
//   - event conditions listing no event, which never match (warning)
func Validate(g Graph) *Report {
	report := &Report{}
	states := g.States()

	registered := make(map[*domain.State]bool, len(states))
	for _, s := range states {
		registered[s] = true
	}

	for _, s := range states {
		if s.Final {
			if len(s.Transitions) > 0 {
				report.add(SeverityWarning, s.Name, "final state declares %d transitions that are never evaluated", len(s.Transitions))
			}
		} else if len(s.Transitions) == 0 {
			report.add(SeverityWarning, s.Name, "non-final state has no outgoing transition; the machine stalls here")
		}

		for i, t := range s.Transitions {
			n := i + 1
			switch {
			case t.Target == nil:
				report.add(SeverityError, s.Name, "transition %d has no target", n)
			case !registered[t.Target]:
				report.add(SeverityError, s.Name, "transition %d targets unregistered state %s", n, t.Target.Name)
			}
			if t.Condition == nil {
				report.add(SeverityError, s.Name, "transition %d has no condition", n)
			} else if ec, ok := t.Condition.(domain.EventCondition); ok && len(ec.Events) == 0 {
				report.add(SeverityWarning, s.Name, "transition %d listens to no event and never fires", n)
			}
			if t.Probability < 0 || t.Probability > 1 {
				report.add(SeverityError, s.Name, "transition %d probability %g is outside [0,1]", n, t.Probability)
			}
		}
	}

	reached := reachable(g.Initial(), registered)
	for _, s := range states {
		if !reached[s] {
			report.add(SeverityWarning, s.Name, "unreachable from initial state %s", g.Initial().Name)
		}
	}
	return report
}

// reachable runs a breadth-first walk over registered states only.
func reachable(initial *domain.State, registered map[*domain.State]bool) map[*domain.State]bool {
	visited := map[*domain.State]bool{initial: true}
	queue := []*domain.State{initial}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.Final {
			continue
		}
		for _, t := range current.Transitions {
			if t.Target == nil || !registered[t.Target] || visited[t.Target] {
				continue
			}
			visited[t.Target] = true
			queue = append(queue, t.Target)
		}
	}
	return visited
}

// Package metrics exports machine activity as Prometheus counters and serves
// them over HTTP.
package metrics

import (
	"fmt"

	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the robofsm counters.
type Collector struct {
	events      *prometheus.CounterVec
	transitions *prometheus.CounterVec
	stalls      *prometheus.CounterVec
	finals      *prometheus.CounterVec
}

// NewCollector creates the counters and registers them on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robofsm_events_total",
			Help: "Total number of processed events by play and event outcome (success, failure or none)",
		}, []string{"play", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robofsm_transitions_total",
			Help: "Total number of state transitions by play, from state and to state",
		}, []string{"play", "from", "to"}),
		stalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robofsm_stalls_total",
			Help: "Total number of events that matched no transition, by play and state",
		}, []string{"play", "state"}),
		finals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robofsm_finals_total",
			Help: "Total number of final states reached by play, state and result",
		}, []string{"play", "state", "result"}),
	}

	for _, col := range []prometheus.Collector{c.events, c.transitions, c.stalls, c.finals} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return c, nil
}

// Hooks returns lifecycle hooks feeding the counters under the given play label.
func (c *Collector) Hooks(play string) domain.LifecycleHooks {
	play = sanitizePlay(play)
	return domain.LifecycleHooks{
		OnEvent: func(e domain.EventInfo) {
			c.events.WithLabelValues(play, string(e.Outcome)).Inc()
		},
		OnTransition: func(t domain.TransitionInfo) {
			c.transitions.WithLabelValues(play, t.From, t.To).Inc()
		},
		OnStall: func(e domain.EventInfo) {
			c.stalls.WithLabelValues(play, e.State).Inc()
		},
		OnFinal: func(f domain.FinalInfo) {
			c.finals.WithLabelValues(play, f.State, result(f.Success)).Inc()
		},
	}
}

func sanitizePlay(play string) string {
	if play == "" {
		return "unnamed"
	}
	return play
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

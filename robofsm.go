package robofsm

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/robofsm/internal/logging"
	"github.com/aretw0/robofsm/internal/runtime"
	"github.com/aretw0/robofsm/pkg/domain"
)

// Machine is the high-level entry point for the robofsm library.
// It wraps the internal runtime and provides a simplified API for consumers.
// A Machine is owned by a single goroutine.
type Machine struct {
	runtime *runtime.Engine
	logger  *slog.Logger
	Name    string

	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Machine.
type Option func(*Machine)

// WithName labels the machine (play name in logs, metrics and snapshots).
func WithName(name string) Option {
	return func(m *Machine) {
		m.Name = name
	}
}

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.runtimeOpts = append(m.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithSignals replaces the success/failure events that bias selection.
// DefaultSignals (the soccer outcome events) applies when this option is absent.
func WithSignals(signals domain.OutcomeSignals) Option {
	return func(m *Machine) {
		m.runtimeOpts = append(m.runtimeOpts, runtime.WithSignals(signals))
	}
}

// WithSelector replaces the fallback strategy (first eligible transition by default).
func WithSelector(s domain.Selector) Option {
	return func(m *Machine) {
		m.runtimeOpts = append(m.runtimeOpts, runtime.WithSelector(s))
	}
}

// WithWeightedSelection makes the fallback step draw among eligible
// transitions by probability, with a seeded source. The outcome bias still applies first.
func WithWeightedSelection(seed uint64) Option {
	return WithSelector(runtime.NewWeighted(seed))
}

// New creates a machine starting (and resetting) at initial.
func New(initial *domain.State, opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.Name != "" {
		m.logger = m.logger.With("play", m.Name)
	}

	runtimeOpts := append([]runtime.EngineOption{runtime.WithLogger(m.logger)}, m.runtimeOpts...)
	m.runtime = runtime.NewEngine(initial, runtimeOpts...)
	return m
}

// AddState registers a state. The initial state is registered by New.
func (m *Machine) AddState(s *domain.State) {
	m.runtime.AddState(s)
}

// ProcessEvent feeds one event and reports whether the machine is now on a final state.
func (m *Machine) ProcessEvent(event string) bool {
	return m.runtime.ProcessEvent(event)
}

// Reset returns to the initial state and clears the history.
func (m *Machine) Reset() {
	m.runtime.Reset()
}

// States returns every registered state in registration order.
func (m *Machine) States() []*domain.State {
	return m.runtime.States()
}

// State looks up a state by name.
func (m *Machine) State(name string) (*domain.State, bool) {
	return m.runtime.State(name)
}

// Initial returns the starting state.
func (m *Machine) Initial() *domain.State {
	return m.runtime.Initial()
}

// Current returns the active state.
func (m *Machine) Current() *domain.State {
	return m.runtime.Current()
}

// History returns the names of the states that were current before each processed event.
func (m *Machine) History() []string {
	return m.runtime.History()
}

// Path returns the history followed by the current state, as shown at the end of a simulation.
func (m *Machine) Path() []string {
	return append(m.runtime.History(), m.runtime.Current().Name)
}

// Signals returns the outcome events in use.
func (m *Machine) Signals() domain.OutcomeSignals {
	return m.runtime.Signals()
}

// SetCurrent forces the active state, bypassing transitions.
// Intended for demos and manual simulation.
func (m *Machine) SetCurrent(name string) error {
	return m.runtime.SetCurrent(name)
}

// Snapshot captures the machine position, labeled with the machine name.
func (m *Machine) Snapshot() domain.Snapshot {
	s := m.runtime.Snapshot()
	s.Play = m.Name
	return s
}

// Restore repositions the machine from a snapshot of the same graph.
// A snapshot labeled with another play name is rejected.
func (m *Machine) Restore(s domain.Snapshot) error {
	if s.Play != "" && m.Name != "" && s.Play != m.Name {
		return fmt.Errorf("%w: %s into %s", domain.ErrPlayMismatch, s.Play, m.Name)
	}
	return m.runtime.Restore(s)
}

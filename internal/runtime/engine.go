package runtime

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/robofsm/internal/logging"
	"github.com/aretw0/robofsm/pkg/domain"
)

// Engine is the core state machine runner.
// It is not safe for concurrent use; a machine belongs to a single owner.
type Engine struct {
	states  map[string]*domain.State
	order   []string
	initial *domain.State
	current *domain.State
	history []string

	signals  domain.OutcomeSignals
	selector domain.Selector
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithSignals replaces the outcome events used by the selection bias.
func WithSignals(signals domain.OutcomeSignals) EngineOption {
	return func(e *Engine) {
		e.signals = signals
	}
}

// WithSelector replaces the fallback selection strategy.
func WithSelector(s domain.Selector) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.selector = s
		}
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine positioned on initial, which is registered as its first state.
func NewEngine(initial *domain.State, opts ...EngineOption) *Engine {
	e := &Engine{
		states:   make(map[string]*domain.State),
		initial:  initial,
		current:  initial,
		signals:  domain.DefaultSignals(),
		selector: FirstMatch{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.AddState(initial)
	return e
}

// AddState registers a state. Registering a name twice replaces the earlier
// state but keeps its position in the listing order.
func (e *Engine) AddState(s *domain.State) {
	if _, exists := e.states[s.Name]; !exists {
		e.order = append(e.order, s.Name)
	} else if e.states[s.Name] != s {
		e.logger.Warn("state replaced", "state", s.Name)
	}
	e.states[s.Name] = s
}

// ProcessEvent feeds one event to the machine and reports whether it now sits on a final state.
// An event that no transition accepts leaves the machine where it is and returns false.
func (e *Engine) ProcessEvent(event string) bool {
	from := e.current
	e.history = append(e.history, from.Name)

	outcome := e.signals.Classify(event)
	info := domain.EventInfo{Event: event, State: from.Name, Outcome: outcome}
	if e.hooks.OnEvent != nil {
		e.hooks.OnEvent(info)
	}

	if from.Action != nil {
		from.Action.Execute(event)
	}

	if from.Final {
		e.logger.Debug("event on final state", "event", event, "state", from.Name)
		return true
	}

	eligible := e.eligible(from, event)
	if len(eligible) == 0 {
		e.logger.Debug("no eligible transition", "event", event, "state", from.Name)
		if e.hooks.OnStall != nil {
			e.hooks.OnStall(info)
		}
		return false
	}

	if t := preferFinal(eligible, outcome); t != nil {
		e.follow(event, from, t, true)
		return true
	}

	e.follow(event, from, e.selector.Select(eligible), false)
	return e.current.Final
}

func (e *Engine) eligible(s *domain.State, event string) []*domain.Transition {
	var eligible []*domain.Transition
	for _, t := range s.Transitions {
		if t.ShouldTransition(event) {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

// preferFinal returns the first eligible transition landing on a final state
// whose classification matches the event outcome.
func preferFinal(eligible []*domain.Transition, outcome domain.Outcome) *domain.Transition {
	if outcome == domain.OutcomeNone {
		return nil
	}
	for _, t := range eligible {
		if t.Target.Final && t.Target.Outcome() == outcome {
			return t
		}
	}
	return nil
}

func (e *Engine) follow(event string, from *domain.State, t *domain.Transition, biased bool) {
	e.current = t.Target

	e.logger.Debug("transition",
		"event", event,
		"from", from.Name,
		"to", t.Target.Name,
		"probability", t.Probability,
		"biased", biased,
	)

	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(domain.TransitionInfo{
			Event:       event,
			From:        from.Name,
			To:          t.Target.Name,
			Probability: t.Probability,
			Biased:      biased,
		})
	}
	if t.Target.Final && e.hooks.OnFinal != nil {
		e.hooks.OnFinal(domain.FinalInfo{Event: event, State: t.Target.Name, Success: t.Target.Success})
	}
}

// Reset moves the machine back to its initial state and clears the history.
func (e *Engine) Reset() {
	e.current = e.initial
	e.history = nil
}

// States returns the registered states in registration order.
func (e *Engine) States() []*domain.State {
	states := make([]*domain.State, 0, len(e.order))
	for _, name := range e.order {
		states = append(states, e.states[name])
	}
	return states
}

// State looks up a registered state by name.
func (e *Engine) State(name string) (*domain.State, bool) {
	s, ok := e.states[name]
	return s, ok
}

// Initial returns the state the machine starts from.
func (e *Engine) Initial() *domain.State {
	return e.initial
}

// Current returns the active state.
func (e *Engine) Current() *domain.State {
	return e.current
}

// History returns a copy of the states visited before each processed event.
func (e *Engine) History() []string {
	return slices.Clone(e.history)
}

// Signals returns the outcome events used by the bias.
func (e *Engine) Signals() domain.OutcomeSignals {
	return e.signals
}

// SetCurrent forces the active state. It bypasses transitions entirely and
// exists for simulation and demo front-ends; history is left untouched.
func (e *Engine) SetCurrent(name string) error {
	s, ok := e.states[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrStateNotFound, name)
	}
	e.current = s
	return nil
}

// Snapshot captures the machine position.
func (e *Engine) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Current:    e.current.Name,
		History:    e.History(),
		Terminated: e.current.Final,
		Success:    e.current.Final && e.current.Success,
	}
}

// Restore repositions the machine from a snapshot taken on the same graph.
func (e *Engine) Restore(s domain.Snapshot) error {
	current, ok := e.states[s.Current]
	if !ok {
		return fmt.Errorf("restore current: %w: %s", domain.ErrStateNotFound, s.Current)
	}
	for _, name := range s.History {
		if _, ok := e.states[name]; !ok {
			return fmt.Errorf("restore history: %w: %s", domain.ErrStateNotFound, name)
		}
	}
	e.current = current
	e.history = slices.Clone(s.History)
	return nil
}

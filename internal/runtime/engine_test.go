package runtime_test

import (
	"testing"

	"github.com/aretw0/robofsm/internal/runtime"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passGraph mirrors the pass play: INITIAL -> GO_TO_BALL -> ALIGN -> PASS -> SUCCESS|FAILURE.
func passGraph(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()

	initial := domain.NewState("INITIAL", nil)
	goToBall := domain.NewState("GO_TO_BALL", nil)
	align := domain.NewState("ALIGN", nil)
	pass := domain.NewState("PASS", nil)
	success := domain.NewFinalState("SUCCESS", true)
	failure := domain.NewFinalState("FAILURE", false)

	initial.AddTransition(domain.NewTransition(goToBall, domain.OnEvent("NEAR_BALL"), 1))
	goToBall.AddTransition(domain.NewTransition(align, domain.OnEvent("ALIGNED"), 1))
	align.AddTransition(domain.NewTransition(pass, domain.OnEvent("BALL_KICKED"), 1))
	pass.AddTransition(domain.NewTransition(success, domain.OnEvent("BALL_RECEIVED"), 0.85))
	pass.AddTransition(domain.NewTransition(failure, domain.OnEvent("PASS_FAILED"), 1))

	opts = append([]runtime.EngineOption{runtime.WithLogger(slogt.New(t))}, opts...)
	e := runtime.NewEngine(initial, opts...)
	for _, s := range []*domain.State{goToBall, align, pass, success, failure} {
		e.AddState(s)
	}
	return e
}

func TestEngine_ResetRestoresInitial(t *testing.T) {
	e := passGraph(t)
	e.ProcessEvent("NEAR_BALL")
	e.ProcessEvent("ALIGNED")

	e.Reset()

	assert.Same(t, e.Initial(), e.Current())
	assert.Empty(t, e.History())
}

func TestEngine_HistoryRecordsStateBeforeEachEvent(t *testing.T) {
	e := passGraph(t)
	events := []string{"NEAR_BALL", "UNKNOWN", "ALIGNED", "BALL_KICKED", "BALL_RECEIVED", "NEAR_BALL"}

	var before []string
	for _, ev := range events {
		before = append(before, e.Current().Name)
		e.ProcessEvent(ev)
	}

	history := e.History()
	require.Len(t, history, len(events))
	assert.Equal(t, before, history)
	assert.Equal(t, []string{"INITIAL", "GO_TO_BALL", "GO_TO_BALL", "ALIGN", "PASS", "SUCCESS"}, history)
}

func TestEngine_HistoryIsACopy(t *testing.T) {
	e := passGraph(t)
	e.ProcessEvent("NEAR_BALL")

	h := e.History()
	h[0] = "TAMPERED"

	assert.Equal(t, "INITIAL", e.History()[0])
}

func TestEngine_FinalStateIsASink(t *testing.T) {
	final := domain.NewFinalState("DONE", true)
	escape := domain.NewState("ESCAPE", nil)

	evaluated := false
	final.AddTransition(domain.NewTransition(escape, domain.ConditionFunc(func(string) bool {
		evaluated = true
		return true
	}), 1))

	e := runtime.NewEngine(final)
	e.AddState(escape)

	for _, ev := range []string{"ANY", "GOAL_SCORED", "SHOT_MISSED"} {
		assert.True(t, e.ProcessEvent(ev))
		assert.Equal(t, "DONE", e.Current().Name)
	}
	assert.False(t, evaluated, "transitions of a final state must not be evaluated")
	assert.Len(t, e.History(), 3)
}

func TestEngine_SuccessBiasBeatsDeclarationOrder(t *testing.T) {
	for _, successFirst := range []bool{true, false} {
		pass := domain.NewState("PASS", nil)
		success := domain.NewFinalState("SUCCESS", true)
		retry := domain.NewState("RETRY", nil)

		toSuccess := domain.NewTransition(success, domain.Always(), 0.5)
		toRetry := domain.NewTransition(retry, domain.Always(), 0.5)
		if successFirst {
			pass.AddTransition(toSuccess)
			pass.AddTransition(toRetry)
		} else {
			pass.AddTransition(toRetry)
			pass.AddTransition(toSuccess)
		}

		e := runtime.NewEngine(pass)
		e.AddState(success)
		e.AddState(retry)

		assert.True(t, e.ProcessEvent("BALL_RECEIVED"))
		assert.Equal(t, "SUCCESS", e.Current().Name, "successFirst=%v", successFirst)
	}
}

func TestEngine_FailureBiasSkipsEligibleSuccess(t *testing.T) {
	shoot := domain.NewState("SHOOT", nil)
	goal := domain.NewFinalState("GOAL", true)
	missed := domain.NewFinalState("MISSED", false)
	shoot.AddTransition(domain.NewTransition(goal, domain.Always(), 1))
	shoot.AddTransition(domain.NewTransition(missed, domain.Always(), 1))

	e := runtime.NewEngine(shoot)
	e.AddState(goal)
	e.AddState(missed)

	assert.True(t, e.ProcessEvent("SHOT_MISSED"))
	assert.Equal(t, "MISSED", e.Current().Name)
}

func TestEngine_BiasFallsBackToFirstEligible(t *testing.T) {
	// A success event with no final/success target eligible uses declaration order.
	pass := domain.NewState("PASS", nil)
	retry := domain.NewState("RETRY", nil)
	failure := domain.NewFinalState("FAILURE", false)
	pass.AddTransition(domain.NewTransition(retry, domain.Always(), 1))
	pass.AddTransition(domain.NewTransition(failure, domain.Always(), 1))

	e := runtime.NewEngine(pass)
	e.AddState(retry)
	e.AddState(failure)

	assert.False(t, e.ProcessEvent("BALL_RECEIVED"))
	assert.Equal(t, "RETRY", e.Current().Name)
}

func TestEngine_FallbackReportsFinal(t *testing.T) {
	a := domain.NewState("A", nil)
	end := domain.NewFinalState("END", false)
	a.AddTransition(domain.NewTransition(end, domain.OnEvent("STOP"), 1))

	e := runtime.NewEngine(a)
	e.AddState(end)

	assert.True(t, e.ProcessEvent("STOP"), "landing on a final state through the fallback returns true")
	assert.True(t, e.Current().Final)
}

func TestEngine_StallKeepsState(t *testing.T) {
	e := passGraph(t)

	assert.False(t, e.ProcessEvent("ALIGNED"))
	assert.Equal(t, "INITIAL", e.Current().Name)
	assert.Equal(t, []string{"INITIAL"}, e.History())
}

func TestEngine_ProbabilityIsInert(t *testing.T) {
	start := domain.NewState("START", nil)
	a := domain.NewState("A", nil)
	b := domain.NewState("B", nil)
	start.AddTransition(domain.NewTransition(a, domain.OnEvent("GO"), 0.01))
	start.AddTransition(domain.NewTransition(b, domain.OnEvent("GO"), 0.99))

	e := runtime.NewEngine(start)
	e.AddState(a)
	e.AddState(b)

	for range 50 {
		e.Reset()
		assert.False(t, e.ProcessEvent("GO"))
		assert.Equal(t, "A", e.Current().Name)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	events := []string{"NEAR_BALL", "NOISE", "ALIGNED", "BALL_KICKED", "PASS_FAILED", "NEAR_BALL"}

	run := func() ([]string, string) {
		e := passGraph(t)
		e.Reset()
		for _, ev := range events {
			e.ProcessEvent(ev)
		}
		return e.History(), e.Current().Name
	}

	h1, c1 := run()
	h2, c2 := run()
	assert.Equal(t, h1, h2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, "FAILURE", c1)
}

func TestEngine_EntryActionRunsWhileCurrent(t *testing.T) {
	var seen []string
	record := domain.ActionFunc(func(ev string) { seen = append(seen, ev) })

	idle := domain.NewState("IDLE", record)
	busy := domain.NewState("BUSY", nil)
	idle.AddTransition(domain.NewTransition(busy, domain.OnEvent("WORK"), 1))

	e := runtime.NewEngine(idle)
	e.AddState(busy)

	e.ProcessEvent("PING")
	e.ProcessEvent("WORK") // action still runs on the call that leaves IDLE
	e.ProcessEvent("PING") // now in BUSY, no action

	assert.Equal(t, []string{"PING", "WORK"}, seen)
}

func TestEngine_CustomSignals(t *testing.T) {
	cook := domain.NewState("COOK", nil)
	retry := domain.NewState("RETRY", nil)
	burnt := domain.NewFinalState("BURNT", false)
	cook.AddTransition(domain.NewTransition(retry, domain.Always(), 1))
	cook.AddTransition(domain.NewTransition(burnt, domain.Always(), 1))

	e := runtime.NewEngine(cook, runtime.WithSignals(domain.OutcomeSignals{Failure: []string{"SMOKE"}}))
	e.AddState(retry)
	e.AddState(burnt)

	assert.True(t, e.ProcessEvent("SMOKE"))
	assert.Equal(t, "BURNT", e.Current().Name)

	// The soccer defaults are gone: PASS_FAILED is a plain event now.
	e.Reset()
	assert.False(t, e.ProcessEvent("PASS_FAILED"))
	assert.Equal(t, "RETRY", e.Current().Name)
}

func TestEngine_Introspection(t *testing.T) {
	e := passGraph(t)

	var names []string
	for _, s := range e.States() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"INITIAL", "GO_TO_BALL", "ALIGN", "PASS", "SUCCESS", "FAILURE"}, names)

	pass, ok := e.State("PASS")
	require.True(t, ok)
	require.Len(t, pass.Transitions, 2)
	assert.Equal(t, "SUCCESS", pass.Transitions[0].TargetName())
	assert.InDelta(t, 0.85, pass.Transitions[0].Probability, 1e-9)

	_, ok = e.State("NOPE")
	assert.False(t, ok)

	assert.Equal(t, domain.DefaultSignals(), e.Signals())
}

func TestEngine_AddStateReplacesInPlace(t *testing.T) {
	e := passGraph(t)
	replacement := domain.NewState("ALIGN", nil)

	e.AddState(replacement)

	states := e.States()
	assert.Len(t, states, 6)
	assert.Same(t, replacement, states[2])
}

func TestEngine_SetCurrent(t *testing.T) {
	e := passGraph(t)

	require.NoError(t, e.SetCurrent("PASS"))
	assert.Equal(t, "PASS", e.Current().Name)
	assert.Empty(t, e.History(), "override does not touch history")

	assert.True(t, e.ProcessEvent("BALL_RECEIVED"))

	err := e.SetCurrent("MISSING")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
	assert.Equal(t, "SUCCESS", e.Current().Name)
}

func TestEngine_SnapshotRestore(t *testing.T) {
	e := passGraph(t)
	e.ProcessEvent("NEAR_BALL")
	e.ProcessEvent("ALIGNED")

	snap := e.Snapshot()
	assert.Equal(t, "ALIGN", snap.Current)
	assert.Equal(t, []string{"INITIAL", "GO_TO_BALL"}, snap.History)
	assert.False(t, snap.Terminated)

	other := passGraph(t)
	require.NoError(t, other.Restore(snap))
	assert.Equal(t, "ALIGN", other.Current().Name)
	assert.Equal(t, snap.History, other.History())

	other.ProcessEvent("BALL_KICKED")
	other.ProcessEvent("BALL_RECEIVED")
	final := other.Snapshot()
	assert.True(t, final.Terminated)
	assert.True(t, final.Success)

	err := other.Restore(domain.Snapshot{Current: "GHOST"})
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
	err = other.Restore(domain.Snapshot{Current: "PASS", History: []string{"GHOST"}})
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
	assert.Equal(t, "SUCCESS", other.Current().Name, "failed restore leaves the machine untouched")
}

func TestEngine_Hooks(t *testing.T) {
	var (
		events      []domain.EventInfo
		transitions []domain.TransitionInfo
		stalls      []domain.EventInfo
		finals      []domain.FinalInfo
	)
	hooks := domain.LifecycleHooks{
		OnEvent:      func(i domain.EventInfo) { events = append(events, i) },
		OnTransition: func(i domain.TransitionInfo) { transitions = append(transitions, i) },
		OnStall:      func(i domain.EventInfo) { stalls = append(stalls, i) },
		OnFinal:      func(i domain.FinalInfo) { finals = append(finals, i) },
	}

	e := passGraph(t, runtime.WithLifecycleHooks(hooks))
	for _, ev := range []string{"NEAR_BALL", "NOISE", "ALIGNED", "BALL_KICKED", "BALL_RECEIVED"} {
		e.ProcessEvent(ev)
	}

	assert.Len(t, events, 5)
	assert.Equal(t, domain.OutcomeSuccess, events[4].Outcome)
	require.Len(t, stalls, 1)
	assert.Equal(t, "NOISE", stalls[0].Event)
	assert.Equal(t, "GO_TO_BALL", stalls[0].State)

	require.Len(t, transitions, 4)
	assert.Equal(t, domain.TransitionInfo{Event: "BALL_RECEIVED", From: "PASS", To: "SUCCESS", Probability: 0.85, Biased: true}, transitions[3])
	assert.False(t, transitions[0].Biased)

	require.Len(t, finals, 1)
	assert.Equal(t, domain.FinalInfo{Event: "BALL_RECEIVED", State: "SUCCESS", Success: true}, finals[0])
}

func TestEngine_WeightedSelector(t *testing.T) {
	start := domain.NewState("START", nil)
	a := domain.NewState("A", nil)
	b := domain.NewState("B", nil)
	start.AddTransition(domain.NewTransition(a, domain.OnEvent("GO"), 0.01))
	start.AddTransition(domain.NewTransition(b, domain.OnEvent("GO"), 0.99))

	counts := map[string]int{}
	e := runtime.NewEngine(start, runtime.WithSelector(runtime.NewWeighted(42)))
	e.AddState(a)
	e.AddState(b)
	for range 200 {
		e.Reset()
		e.ProcessEvent("GO")
		counts[e.Current().Name]++
	}
	assert.Greater(t, counts["B"], counts["A"])

	// Same seed, same draws.
	replay := func() []string {
		e := runtime.NewEngine(start, runtime.WithSelector(runtime.NewWeighted(7)))
		e.AddState(a)
		e.AddState(b)
		var out []string
		for range 20 {
			e.Reset()
			e.ProcessEvent("GO")
			out = append(out, e.Current().Name)
		}
		return out
	}
	assert.Equal(t, replay(), replay())
}

func TestEngine_WeightedStillHonorsBias(t *testing.T) {
	pass := domain.NewState("PASS", nil)
	retry := domain.NewState("RETRY", nil)
	success := domain.NewFinalState("SUCCESS", true)
	pass.AddTransition(domain.NewTransition(retry, domain.Always(), 1))
	pass.AddTransition(domain.NewTransition(success, domain.Always(), 0))

	e := runtime.NewEngine(pass, runtime.WithSelector(runtime.NewWeighted(1)))
	e.AddState(retry)
	e.AddState(success)

	assert.True(t, e.ProcessEvent("BALL_RECEIVED"))
	assert.Equal(t, "SUCCESS", e.Current().Name)
}

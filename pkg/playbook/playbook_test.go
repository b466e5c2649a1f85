package playbook_test

import (
	"testing"

	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/instruction"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/aretw0/robofsm/pkg/robot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateNames(t *testing.T, p *playbook.Play) []string {
	t.Helper()
	m, err := p.Build(playbook.Config{})
	require.NoError(t, err)
	var names []string
	for _, s := range m.States() {
		names = append(names, s.Name)
	}
	return names
}

func TestPlays_Graphs(t *testing.T) {
	tests := []struct {
		play   string
		states []string
		probs  [2]float64
	}{
		{playbook.Pass, []string{"INITIAL", "GO_TO_BALL", "ALIGN", "PASS", "SUCCESS", "FAILURE"}, [2]float64{0.85, 1.0}},
		{playbook.Shoot, []string{"INITIAL", "GO_TO_BALL", "ALIGN_GOAL", "SHOOT", "GOAL", "MISSED"}, [2]float64{1.0, 1.0}},
		{playbook.Block, []string{"INITIAL", "CALCULATE_POSITION", "GO_TO_POSITION", "BLOCK", "BLOCKING_SUCCESS", "BLOCKING_FAILURE"}, [2]float64{0.9, 1.0}},
		{playbook.Intercept, []string{"INITIAL", "CALCULATE_TRAJECTORY", "GO_TO_INTERCEPT_POSITION", "INTERCEPT", "INTERCEPTION_SUCCESS", "INTERCEPTION_FAILURE"}, [2]float64{0.75, 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.play, func(t *testing.T) {
			p, err := playbook.Lookup(tt.play)
			require.NoError(t, err)
			assert.Equal(t, tt.states, stateNames(t, p))

			m, err := p.Build(playbook.Config{})
			require.NoError(t, err)
			assert.Equal(t, tt.play, m.Name)

			decision, ok := m.State(tt.states[3])
			require.True(t, ok)
			require.Len(t, decision.Transitions, 2)
			assert.Equal(t, tt.probs[0], decision.Transitions[0].Probability)
			assert.Equal(t, tt.probs[1], decision.Transitions[1].Probability)
			assert.True(t, decision.Transitions[0].Target.Success)
			assert.False(t, decision.Transitions[1].Target.Success)
		})
	}
}

func TestPlays_SequencesReachExpectedStates(t *testing.T) {
	for _, p := range playbook.All() {
		t.Run(p.Name+"/success", func(t *testing.T) {
			m, err := p.Build(playbook.Config{})
			require.NoError(t, err)
			for i, s := range p.Steps {
				final := m.ProcessEvent(s.Event)
				assert.Equal(t, s.Expect, m.Current().Name, "step %d", i+1)
				assert.Equal(t, i == len(p.Steps)-1, final)
			}
			assert.True(t, m.Current().Success)
		})
		t.Run(p.Name+"/failure", func(t *testing.T) {
			m, err := p.Build(playbook.Config{})
			require.NoError(t, err)
			for i, s := range p.FailSteps {
				m.ProcessEvent(s.Event)
				assert.Equal(t, s.Expect, m.Current().Name, "step %d", i+1)
			}
			assert.True(t, m.Current().Final)
			assert.False(t, m.Current().Success)
		})
	}
}

func TestPass_ActionsUseTarget(t *testing.T) {
	rec := &robot.Recorder{}
	p, err := playbook.Lookup(playbook.Pass)
	require.NoError(t, err)

	m, err := p.Build(playbook.Config{Actions: playbook.Actions{Actuator: rec}, Target: "R4"})
	require.NoError(t, err)
	for _, s := range p.Steps {
		m.ProcessEvent(s.Event)
	}

	assert.Equal(t, []string{"go_to_ball", "align", "pass"}, rec.Motions())
	calls := rec.Calls()
	assert.Equal(t, "R1", calls[0].Robot)
	assert.Equal(t, "R4", calls[1].Target)
	assert.Equal(t, "R4", calls[2].Target)
}

func TestBlock_DefaultTargetAndNarration(t *testing.T) {
	rec := &robot.Recorder{}
	p, err := playbook.Lookup(playbook.Block)
	require.NoError(t, err)

	m, err := p.Build(playbook.Config{Actions: playbook.Actions{Actuator: rec, Robot: "R6"}})
	require.NoError(t, err)
	for _, s := range p.Steps {
		m.ProcessEvent(s.Event)
	}

	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "Calculating position to block R3", calls[0].Text)
	assert.Equal(t, "Robot R6 moves to blocking position", calls[1].Text)
	assert.Equal(t, robot.Call{Motion: "block", Robot: "R6", Target: "R3"}, calls[2])
}

func TestShoot_KicksAtFullPower(t *testing.T) {
	rec := &robot.Recorder{}
	p, _ := playbook.Lookup(playbook.Shoot)
	m, err := p.Build(playbook.Config{Actions: playbook.Actions{Actuator: rec}})
	require.NoError(t, err)
	for _, s := range p.Steps {
		m.ProcessEvent(s.Event)
	}
	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "GOAL", calls[1].Target)
	assert.Equal(t, 1.0, calls[2].Power)
}

func TestLookup(t *testing.T) {
	p, err := playbook.Lookup(" Intercept ")
	require.NoError(t, err)
	assert.Equal(t, "Intercept ball", p.Title)

	_, err = playbook.Lookup("dribble")
	assert.ErrorIs(t, err, domain.ErrUnknownPlay)

	assert.Equal(t, []string{"pass", "shoot", "block", "intercept"}, playbook.Names())
}

func TestFromTask(t *testing.T) {
	tests := []struct {
		input, play, target, desc string
	}{
		{"Pass the ball to R2", playbook.Pass, "R2", "Pass to robot R2"},
		{"pass to r8", playbook.Pass, "R8", "Pass to robot R8"},
		{"Shoot the ball into the goal", playbook.Shoot, "", "Shoot at goal"},
		{"Block R3", playbook.Block, "R3", "Block robot R3"},
		{"Intercept the ball", playbook.Intercept, "", "Intercept the ball"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			task, err := instruction.Parse(tt.input)
			require.NoError(t, err)
			plan, err := playbook.FromTask(task)
			require.NoError(t, err)
			assert.Equal(t, tt.play, plan.Play.Name)
			assert.Equal(t, tt.target, plan.Target)
			assert.Equal(t, tt.desc, plan.Description)

			m, err := plan.Build(playbook.Actions{Actuator: &robot.Recorder{}})
			require.NoError(t, err)
			assert.Equal(t, "INITIAL", m.Current().Name)
		})
	}
}

func TestFromTask_UnknownAction(t *testing.T) {
	_, err := playbook.FromTask(&instruction.Task{Action: "dribble"})
	assert.ErrorIs(t, err, domain.ErrUnknownPlay)
}

func TestExplanationText(t *testing.T) {
	p, _ := playbook.Lookup(playbook.Shoot)
	text := p.ExplanationText()
	assert.Contains(t, text, "3. It aligns with the goal (ALIGN_GOAL)\n")
	assert.Contains(t, text, "   Otherwise, it reaches MISSED state\n")
	assert.Contains(t, text, "and has a certain probability of success.\n")
}

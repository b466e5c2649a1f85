// Package playbook holds the predefined soccer plays: their graphs, the
// plain-language explanation of each and the scripted event sequences used
// to simulate them.
package playbook

import (
	"fmt"
	"strings"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/dsl"
	"github.com/aretw0/robofsm/pkg/instruction"
)

// Play names.
const (
	Pass      = "pass"
	Shoot     = "shoot"
	Block     = "block"
	Intercept = "intercept"
)

// Play is a predefined behavior.
type Play struct {
	Name  string
	Title string

	// DefaultTarget is the robot aimed at when none is given. Empty for plays without a target.
	DefaultTarget string

	// Explanation lists the steps of the play in plain language.
	Explanation []string

	// Steps drives the play to its success state; FailSteps to its failure state.
	Steps     []robofsm.Step
	FailSteps []robofsm.Step

	graph func(b *dsl.Builder, a Actions, target string)
}

// Config parameterizes the machine built for a play.
type Config struct {
	Actions
	Target string
}

// Builder returns the graph of the play with actions bound to cfg.
func (p *Play) Builder(cfg Config) *dsl.Builder {
	target := cfg.Target
	if target == "" {
		target = p.DefaultTarget
	}
	b := dsl.New("INITIAL")
	p.graph(b, cfg.Actions.withDefaults(), target)
	return b
}

// Build creates a machine for the play, named after it.
func (p *Play) Build(cfg Config, opts ...robofsm.Option) (*robofsm.Machine, error) {
	m, err := p.Builder(cfg).Build(append([]robofsm.Option{robofsm.WithName(p.Name)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("play %s: %w", p.Name, err)
	}
	return m, nil
}

// ExplanationText renders the explanation as the numbered list shown to users.
func (p *Play) ExplanationText() string {
	var sb strings.Builder
	for _, line := range p.Explanation {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nEach transition between states depends on specific events\n")
	sb.WriteString("and has a certain probability of success.\n")
	return sb.String()
}

var plays = []*Play{
	{
		Name:          Pass,
		Title:         "Pass between robots",
		DefaultTarget: "R2",
		Explanation: []string{
			"1. Robot starts in INITIAL state",
			"2. It goes to get the ball (GO_TO_BALL)",
			"3. It aligns with the target robot (ALIGN)",
			"4. It performs the pass (PASS)",
			"5. If the pass is successful, it reaches SUCCESS state",
			"   Otherwise, it reaches FAILURE state",
		},
		Steps: []robofsm.Step{
			{Event: domain.EventNearBall, Expect: "GO_TO_BALL"},
			{Event: domain.EventAligned, Expect: "ALIGN"},
			{Event: domain.EventBallKicked, Expect: "PASS"},
			{Event: domain.EventBallReceived, Expect: "SUCCESS"},
		},
		FailSteps: []robofsm.Step{
			{Event: domain.EventNearBall, Expect: "GO_TO_BALL"},
			{Event: domain.EventAligned, Expect: "ALIGN"},
			{Event: domain.EventBallKicked, Expect: "PASS"},
			{Event: domain.EventPassFailed, Expect: "FAILURE"},
		},
		graph: func(b *dsl.Builder, a Actions, target string) {
			b.Add("INITIAL").On("GO_TO_BALL", domain.EventNearBall)
			b.Add("GO_TO_BALL").Do(a.GoToBall()).On("ALIGN", domain.EventAligned)
			b.Add("ALIGN").Do(a.AlignWith(target)).On("PASS", domain.EventBallKicked)
			b.Add("PASS").Do(a.Pass(target)).
				OnP("SUCCESS", 0.85, domain.EventBallReceived).
				OnP("FAILURE", 1.0, domain.EventPassFailed)
			b.Add("SUCCESS").Final(true)
			b.Add("FAILURE").Final(false)
		},
	},
	{
		Name:  Shoot,
		Title: "Shoot at goal",
		Explanation: []string{
			"1. Robot starts in INITIAL state",
			"2. It goes to get the ball (GO_TO_BALL)",
			"3. It aligns with the goal (ALIGN_GOAL)",
			"4. It shoots at goal (SHOOT)",
			"5. If the shot is successful, it reaches GOAL state",
			"   Otherwise, it reaches MISSED state",
		},
		Steps: []robofsm.Step{
			{Event: domain.EventNearBall, Expect: "GO_TO_BALL"},
			{Event: domain.EventAligned, Expect: "ALIGN_GOAL"},
			{Event: domain.EventBallKicked, Expect: "SHOOT"},
			{Event: domain.EventGoalScored, Expect: "GOAL"},
		},
		FailSteps: []robofsm.Step{
			{Event: domain.EventNearBall, Expect: "GO_TO_BALL"},
			{Event: domain.EventAligned, Expect: "ALIGN_GOAL"},
			{Event: domain.EventBallKicked, Expect: "SHOOT"},
			{Event: domain.EventShotMissed, Expect: "MISSED"},
		},
		graph: func(b *dsl.Builder, a Actions, _ string) {
			b.Add("INITIAL").On("GO_TO_BALL", domain.EventNearBall)
			b.Add("GO_TO_BALL").Do(a.GoToBall()).On("ALIGN_GOAL", domain.EventAligned)
			b.Add("ALIGN_GOAL").Do(a.AlignWith("GOAL")).On("SHOOT", domain.EventBallKicked)
			b.Add("SHOOT").Do(a.Kick(1.0)).
				OnP("GOAL", 1.0, domain.EventGoalScored).
				OnP("MISSED", 1.0, domain.EventShotMissed)
			b.Add("GOAL").Final(true)
			b.Add("MISSED").Final(false)
		},
	},
	{
		Name:          Block,
		Title:         "Block opponent robot",
		DefaultTarget: "R3",
		Explanation: []string{
			"1. Robot starts in INITIAL state",
			"2. It calculates the blocking position (CALCULATE_POSITION)",
			"3. It moves to this position (GO_TO_POSITION)",
			"4. It performs the block (BLOCK)",
			"5. If the block is effective, it reaches BLOCKING_SUCCESS state",
			"   Otherwise, it reaches BLOCKING_FAILURE state",
		},
		Steps: []robofsm.Step{
			{Event: domain.EventStart, Expect: "CALCULATE_POSITION"},
			{Event: domain.EventPositionCalculated, Expect: "GO_TO_POSITION"},
			{Event: domain.EventPositionReached, Expect: "BLOCK"},
			{Event: domain.EventBlockingEffective, Expect: "BLOCKING_SUCCESS"},
		},
		FailSteps: []robofsm.Step{
			{Event: domain.EventStart, Expect: "CALCULATE_POSITION"},
			{Event: domain.EventPositionCalculated, Expect: "GO_TO_POSITION"},
			{Event: domain.EventPositionReached, Expect: "BLOCK"},
			{Event: domain.EventBlockingIneffective, Expect: "BLOCKING_FAILURE"},
		},
		graph: func(b *dsl.Builder, a Actions, target string) {
			b.Add("INITIAL").On("CALCULATE_POSITION", domain.EventStart)
			b.Add("CALCULATE_POSITION").Do(a.Say("Calculating position to block "+target)).
				On("GO_TO_POSITION", domain.EventPositionCalculated)
			b.Add("GO_TO_POSITION").Do(a.Say(fmt.Sprintf("Robot %s moves to blocking position", a.Robot))).
				On("BLOCK", domain.EventPositionReached)
			b.Add("BLOCK").Do(a.Block(target)).
				OnP("BLOCKING_SUCCESS", 0.9, domain.EventBlockingEffective).
				OnP("BLOCKING_FAILURE", 1.0, domain.EventBlockingIneffective)
			b.Add("BLOCKING_SUCCESS").Final(true)
			b.Add("BLOCKING_FAILURE").Final(false)
		},
	},
	{
		Name:  Intercept,
		Title: "Intercept ball",
		Explanation: []string{
			"1. Robot starts in INITIAL state",
			"2. It calculates the ball trajectory (CALCULATE_TRAJECTORY)",
			"3. It moves to the interception position (GO_TO_INTERCEPT_POSITION)",
			"4. It attempts to intercept the ball (INTERCEPT)",
			"5. If the interception succeeds, it reaches INTERCEPTION_SUCCESS state",
			"   Otherwise, it reaches INTERCEPTION_FAILURE state",
		},
		Steps: []robofsm.Step{
			{Event: domain.EventStart, Expect: "CALCULATE_TRAJECTORY"},
			{Event: domain.EventTrajectoryCalculated, Expect: "GO_TO_INTERCEPT_POSITION"},
			{Event: domain.EventInterceptPositionReached, Expect: "INTERCEPT"},
			{Event: domain.EventBallIntercepted, Expect: "INTERCEPTION_SUCCESS"},
		},
		FailSteps: []robofsm.Step{
			{Event: domain.EventStart, Expect: "CALCULATE_TRAJECTORY"},
			{Event: domain.EventTrajectoryCalculated, Expect: "GO_TO_INTERCEPT_POSITION"},
			{Event: domain.EventInterceptPositionReached, Expect: "INTERCEPT"},
			{Event: domain.EventInterceptionMissed, Expect: "INTERCEPTION_FAILURE"},
		},
		graph: func(b *dsl.Builder, a Actions, _ string) {
			b.Add("INITIAL").On("CALCULATE_TRAJECTORY", domain.EventStart)
			b.Add("CALCULATE_TRAJECTORY").Do(a.Say("Calculating ball trajectory")).
				On("GO_TO_INTERCEPT_POSITION", domain.EventTrajectoryCalculated)
			b.Add("GO_TO_INTERCEPT_POSITION").Do(a.Say(fmt.Sprintf("Robot %s moves to interception position", a.Robot))).
				On("INTERCEPT", domain.EventInterceptPositionReached)
			b.Add("INTERCEPT").Do(a.Say(fmt.Sprintf("Robot %s attempts to intercept the ball", a.Robot))).
				OnP("INTERCEPTION_SUCCESS", 0.75, domain.EventBallIntercepted).
				OnP("INTERCEPTION_FAILURE", 1.0, domain.EventInterceptionMissed)
			b.Add("INTERCEPTION_SUCCESS").Final(true)
			b.Add("INTERCEPTION_FAILURE").Final(false)
		},
	},
}

// All returns the plays in menu order.
func All() []*Play {
	return append([]*Play(nil), plays...)
}

// Names returns the play names in menu order.
func Names() []string {
	names := make([]string, len(plays))
	for i, p := range plays {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a play by name, case-insensitively.
func Lookup(name string) (*Play, error) {
	for _, p := range plays {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", domain.ErrUnknownPlay, name, strings.Join(Names(), ", "))
}

// Plan is a play selected from an instruction.
type Plan struct {
	Play        *Play
	Target      string
	Description string
}

// FromTask selects the play matching an instruction task.
func FromTask(task *instruction.Task) (*Plan, error) {
	p, err := Lookup(task.Action)
	if err != nil {
		return nil, err
	}
	target := task.Target()
	if target == "" {
		target = p.DefaultTarget
	}
	return &Plan{Play: p, Target: target, Description: task.Description}, nil
}

// Build creates the machine for the plan, aimed at the plan target.
func (pl *Plan) Build(a Actions, opts ...robofsm.Option) (*robofsm.Machine, error) {
	return pl.Play.Build(Config{Actions: a, Target: pl.Target}, opts...)
}

package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/robofsm/pkg/adapters/memory"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/aretw0/robofsm/pkg/robot"
	"github.com/aretw0/robofsm/pkg/session"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	console *Console
	out     *bytes.Buffer
	rec     *robot.Recorder
	dir     string
}

func newFixture(t *testing.T, input string, mutate ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{out: &bytes.Buffer{}, rec: &robot.Recorder{}, dir: t.TempDir()}
	opts := Options{
		In:      strings.NewReader(input),
		Out:     f.out,
		Actions: playbook.Actions{Actuator: f.rec},
		Dir:     f.dir,
		Logger:  slogt.New(t),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	f.console = New(opts)
	return f
}

func TestRun_QuitAndEOF(t *testing.T) {
	f := newFixture(t, "5\n")
	require.NoError(t, f.console.Run(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "=== Robotic Action Planning System for RoboCup SSL ===")
	assert.Contains(t, out, "1. Generate FSM from instruction")
	assert.Contains(t, out, "Thank you for using the robotic action planning system!")

	f = newFixture(t, "")
	assert.NoError(t, f.console.Run(context.Background()), "closed input exits cleanly")
}

func TestRun_InvalidOption(t *testing.T) {
	f := newFixture(t, "9\n5\n")
	require.NoError(t, f.console.Run(context.Background()))
	assert.Contains(t, f.out.String(), "Invalid option. Please try again.")
}

func TestRun_GenerateSimulateExport(t *testing.T) {
	// menu, instruction, simulate? y, four Enters, export? y, filename, quit
	input := "1\nPass the ball to R4\ny\n\n\n\n\ny\nplan.txt\n5\n"
	f := newFixture(t, input)
	require.NoError(t, f.console.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Explanation of this FSM:")
	assert.Contains(t, out, "3. It aligns with the target robot (ALIGN)")
	assert.Contains(t, out, "FSM Visualization:")
	assert.Contains(t, out, "  [SUCCESS] ✓    [FAILURE] ✗")
	assert.Contains(t, out, "FSM simulation for: Pass to robot R4")
	assert.Contains(t, out, "Simulation ended: Success")
	assert.Contains(t, out, "INITIAL -> GO_TO_BALL -> ALIGN -> PASS -> SUCCESS")
	assert.Contains(t, out, "FSM successfully exported to file 'plan.txt'")

	data, err := os.ReadFile(filepath.Join(f.dir, "plan.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "=== Finite State Machine Export ===\n"))
	assert.Contains(t, string(data), "Transition 1 -> SUCCESS (Prob: 0.85)")

	pass := f.rec.Calls()[2]
	assert.Equal(t, robot.Call{Motion: "pass", Robot: "R1", Target: "R4"}, pass)
}

func TestRun_UnrecognizedInstruction(t *testing.T) {
	f := newFixture(t, "1\ndance\n5\n")
	require.NoError(t, f.console.Run(context.Background()))
	assert.Contains(t, f.out.String(), "\nUnrecognized instruction\n")
}

func TestRun_PredefinedQuitEarly(t *testing.T) {
	f := newFixture(t, "2\n3\n\nq\n5\n")
	require.NoError(t, f.console.Run(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "3. Block opponent robot")
	assert.Contains(t, out, "FSM simulation for: Block opponent robot")
	assert.Contains(t, out, "Simulation stopped.")
	assert.Contains(t, out, "INITIAL -> CALCULATE_POSITION\n")
}

func TestRun_ExportDefaultFilename(t *testing.T) {
	f := newFixture(t, "3\n2\n\n5\n")
	require.NoError(t, f.console.Run(context.Background()))
	assert.Contains(t, f.out.String(), "FSM successfully exported to file 'fsm_export.txt'")
	assert.FileExists(t, filepath.Join(f.dir, DefaultExportFile))
}

func TestRun_Help(t *testing.T) {
	f := newFixture(t, "4\n\n5\n")
	require.NoError(t, f.console.Run(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "Key concepts")
	assert.Contains(t, out, "Intercept")
	assert.Contains(t, out, "Press Enter to return to main menu...")
}

func TestDescribe_AutoSimulate(t *testing.T) {
	f := newFixture(t, "", func(o *Options) { o.Auto = true })
	plan, m, err := f.console.Describe("Shoot at goal")
	require.NoError(t, err)
	assert.Equal(t, playbook.Shoot, plan.Play.Name)

	_, err = f.console.Simulate(context.Background(), m, plan.Description, plan.Play.Steps)
	require.NoError(t, err)
	out := f.out.String()
	assert.Contains(t, out, "FSM simulation for: Shoot at goal")
	assert.Contains(t, out, "INITIAL -> GO_TO_BALL -> ALIGN_GOAL -> SHOOT -> GOAL")
	assert.NotContains(t, out, "Press Enter")
	assert.Equal(t, []string{"go_to_ball", "align", "kick"}, f.rec.Motions())

	_, _, err = f.console.Describe("dance")
	assert.ErrorIs(t, err, domain.ErrUnrecognizedInstruction)
}

func TestSimulate_SessionResume(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	// Stop after two events.
	f := newFixture(t, "\n\nq\n", func(o *Options) {
		o.Sessions = mgr
		o.SessionID = "match-1"
	})
	p, err := playbook.Lookup(playbook.Intercept)
	require.NoError(t, err)
	m, err := f.console.Build(p, "")
	require.NoError(t, err)

	res, err := f.console.Simulate(ctx, m, p.Title, p.Steps)
	require.NoError(t, err)
	assert.True(t, res.Quit)
	assert.Contains(t, f.out.String(), ">>> Session 'match-1' active.")

	snap, err := mgr.Load(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, "GO_TO_INTERCEPT_POSITION", snap.Current)

	// A new process picks up at step three.
	g := newFixture(t, "", func(o *Options) {
		o.Sessions = mgr
		o.SessionID = "match-1"
		o.Auto = true
	})
	m2, err := g.console.Build(p, "")
	require.NoError(t, err)
	res, err = g.console.Simulate(ctx, m2, p.Title, p.Steps)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	assert.True(t, res.Success)
	assert.Contains(t, g.out.String(), "Resuming session 'match-1' at 'GO_TO_INTERCEPT_POSITION' state")

	snap, err = mgr.Load(ctx, "match-1")
	require.NoError(t, err)
	assert.Equal(t, "INTERCEPTION_SUCCESS", snap.Current)
}

func TestSimulate_SessionOfAnotherPlay(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, mgr.Save(ctx, "s", domain.Snapshot{Play: playbook.Pass, Current: "ALIGN", History: []string{"INITIAL", "GO_TO_BALL"}}))

	f := newFixture(t, "", func(o *Options) {
		o.Sessions = mgr
		o.SessionID = "s"
		o.Auto = true
	})
	p, err := playbook.Lookup(playbook.Shoot)
	require.NoError(t, err)
	m, err := f.console.Build(p, "")
	require.NoError(t, err)

	_, err = f.console.Simulate(ctx, m, p.Title, p.Steps)
	assert.ErrorIs(t, err, domain.ErrPlayMismatch)
}

func TestSimulate_CancelledContext(t *testing.T) {
	f := newFixture(t, "", func(o *Options) { o.Auto = true })
	p, err := playbook.Lookup(playbook.Pass)
	require.NoError(t, err)
	m, err := f.console.Build(p, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.console.Simulate(ctx, m, p.Title, p.Steps)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInterruptSignal(t *testing.T) {
	ctx, stop := NotifyContext(context.Background())
	assert.Nil(t, InterruptSignal(ctx))
	stop()
	<-ctx.Done()
	assert.Nil(t, InterruptSignal(ctx), "plain stop is not an interrupt")

	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(Interrupted{Signal: os.Interrupt})
	assert.Equal(t, os.Interrupt, InterruptSignal(ctx))
}

// Package robot defines the action layer the plays drive: the primitive
// motions a soccer robot can perform while a state is current.
package robot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/robofsm/internal/logging"
)

// DefaultPower is the kick strength used by the shoot play.
const DefaultPower = 1.0

// Goal is the alignment target for shots.
const Goal = "GOAL"

// Actuator performs robot motions. Implementations may talk to a simulator
// or real hardware; the plays only depend on this interface.
type Actuator interface {
	GoToBall(ctx context.Context, robot string) error
	AlignWith(ctx context.Context, robot, target string) error
	Kick(ctx context.Context, robot string, power float64) error
	Pass(ctx context.Context, robot, target string) error
	Block(ctx context.Context, robot, target string) error
	// Say reports a step that has no motion primitive (position or trajectory computations).
	Say(ctx context.Context, robot, message string) error
}

// LogActuator narrates motions instead of performing them.
// Lines go to Out (when set) and every call is logged at Info.
type LogActuator struct {
	Logger *slog.Logger
	Out    io.Writer
}

// NewLogActuator creates a LogActuator. A nil logger discards logs.
func NewLogActuator(logger *slog.Logger, out io.Writer) *LogActuator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogActuator{Logger: logger, Out: out}
}

func (a *LogActuator) GoToBall(ctx context.Context, robot string) error {
	return a.narrate(ctx, "go_to_ball", robot, fmt.Sprintf("Robot %s moves to the ball", robot))
}

func (a *LogActuator) AlignWith(ctx context.Context, robot, target string) error {
	return a.narrate(ctx, "align", robot, fmt.Sprintf("Robot %s aligns with %s", robot, target), "target", target)
}

func (a *LogActuator) Kick(ctx context.Context, robot string, power float64) error {
	return a.narrate(ctx, "kick", robot, fmt.Sprintf("Robot %s kicks the ball with power %.1f", robot, power), "power", power)
}

func (a *LogActuator) Pass(ctx context.Context, robot, target string) error {
	return a.narrate(ctx, "pass", robot, fmt.Sprintf("Robot %s passes the ball to %s", robot, target), "target", target)
}

func (a *LogActuator) Block(ctx context.Context, robot, target string) error {
	return a.narrate(ctx, "block", robot, fmt.Sprintf("Robot %s blocks %s", robot, target), "target", target)
}

func (a *LogActuator) Say(ctx context.Context, robot, message string) error {
	return a.narrate(ctx, "say", robot, message)
}

func (a *LogActuator) narrate(ctx context.Context, motion, robot, line string, attrs ...any) error {
	a.Logger.InfoContext(ctx, "robot action", append([]any{"motion", motion, "robot", robot}, attrs...)...)
	if a.Out == nil {
		return nil
	}
	_, err := fmt.Fprintln(a.Out, line)
	return err
}

// Call is one recorded Actuator invocation.
type Call struct {
	Motion string
	Robot  string
	Target string
	Power  float64
	Text   string
}

// Recorder is an Actuator that remembers every call. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// Err, when set, is returned by every call after recording it.
	Err error
}

func (r *Recorder) GoToBall(_ context.Context, robot string) error {
	return r.record(Call{Motion: "go_to_ball", Robot: robot})
}

func (r *Recorder) AlignWith(_ context.Context, robot, target string) error {
	return r.record(Call{Motion: "align", Robot: robot, Target: target})
}

func (r *Recorder) Kick(_ context.Context, robot string, power float64) error {
	return r.record(Call{Motion: "kick", Robot: robot, Power: power})
}

func (r *Recorder) Pass(_ context.Context, robot, target string) error {
	return r.record(Call{Motion: "pass", Robot: robot, Target: target})
}

func (r *Recorder) Block(_ context.Context, robot, target string) error {
	return r.record(Call{Motion: "block", Robot: robot, Target: target})
}

func (r *Recorder) Say(_ context.Context, robot, message string) error {
	return r.record(Call{Motion: "say", Robot: robot, Text: message})
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Motions returns the motion names in call order.
func (r *Recorder) Motions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Motion
	}
	return out
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.Err
}

var (
	_ Actuator = (*LogActuator)(nil)
	_ Actuator = (*Recorder)(nil)
)

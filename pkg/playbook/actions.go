package playbook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/robofsm/internal/logging"
	"github.com/aretw0/robofsm/pkg/adapters/yamlgraph"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/robot"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// DefaultRobot is the robot executing the plays.
const DefaultRobot = "R1"

// Actions binds actuator calls to state entry actions for one robot.
// Actuator failures are logged; they never stop the machine.
type Actions struct {
	Actuator robot.Actuator
	Robot    string
	Logger   *slog.Logger
}

func (a Actions) withDefaults() Actions {
	if a.Logger == nil {
		a.Logger = logging.NewNop()
	}
	if a.Actuator == nil {
		a.Actuator = robot.NewLogActuator(a.Logger, nil)
	}
	if a.Robot == "" {
		a.Robot = DefaultRobot
	}
	return a
}

func (a Actions) bind(motion string, call func(ctx context.Context) error) domain.Action {
	return domain.ActionFunc(func(event string) {
		if err := call(context.Background()); err != nil {
			a.Logger.Warn("robot action failed", "motion", motion, "robot", a.Robot, "event", event, "err", err)
		}
	})
}

func (a Actions) GoToBall() domain.Action {
	return a.bind("go_to_ball", func(ctx context.Context) error { return a.Actuator.GoToBall(ctx, a.Robot) })
}

func (a Actions) AlignWith(target string) domain.Action {
	return a.bind("align", func(ctx context.Context) error { return a.Actuator.AlignWith(ctx, a.Robot, target) })
}

func (a Actions) Kick(power float64) domain.Action {
	return a.bind("kick", func(ctx context.Context) error { return a.Actuator.Kick(ctx, a.Robot, power) })
}

func (a Actions) Pass(target string) domain.Action {
	return a.bind("pass", func(ctx context.Context) error { return a.Actuator.Pass(ctx, a.Robot, target) })
}

func (a Actions) Block(target string) domain.Action {
	return a.bind("block", func(ctx context.Context) error { return a.Actuator.Block(ctx, a.Robot, target) })
}

func (a Actions) Say(message string) domain.Action {
	return a.bind("say", func(ctx context.Context) error { return a.Actuator.Say(ctx, a.Robot, message) })
}

type targetArgs struct {
	Target string `mapstructure:"target"`
}

type kickArgs struct {
	Power float64 `mapstructure:"power" validate:"gte=0,lte=1"`
}

type sayArgs struct {
	Message string `mapstructure:"message" validate:"required"`
}

var validate = validator.New()

// Resolver returns a yamlgraph.ActionResolver over the actuator motions:
// go_to_ball, align {target}, kick {power}, pass {target}, block {target}
// and say {message}. An omitted target falls back to defaultTarget.
func (a Actions) Resolver(defaultTarget string) yamlgraph.ActionResolver {
	a = a.withDefaults()
	return func(do string, args map[string]any) (domain.Action, error) {
		switch do {
		case "go_to_ball":
			if err := decodeArgs(args, &struct{}{}); err != nil {
				return nil, err
			}
			return a.GoToBall(), nil
		case "align", "pass", "block":
			var ta targetArgs
			if err := decodeArgs(args, &ta); err != nil {
				return nil, err
			}
			if ta.Target == "" {
				ta.Target = defaultTarget
			}
			if ta.Target == "" {
				return nil, fmt.Errorf("action %s: target is required", do)
			}
			switch do {
			case "align":
				return a.AlignWith(ta.Target), nil
			case "pass":
				return a.Pass(ta.Target), nil
			default:
				return a.Block(ta.Target), nil
			}
		case "kick":
			ka := kickArgs{Power: robot.DefaultPower}
			if err := decodeArgs(args, &ka); err != nil {
				return nil, err
			}
			return a.Kick(ka.Power), nil
		case "say":
			var sa sayArgs
			if err := decodeArgs(args, &sa); err != nil {
				return nil, err
			}
			return a.Say(sa.Message), nil
		default:
			return nil, fmt.Errorf("unknown action %q", do)
		}
	}
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid action args: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("invalid action args: %w", err)
	}
	return nil
}

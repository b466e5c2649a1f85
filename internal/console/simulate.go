package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/internal/presentation/tui"
	"github.com/aretw0/robofsm/pkg/domain"
)

// Simulate steps m through steps. Without a session the machine starts from
// its initial state; with one, it resumes where the stored snapshot left off
// and every step is persisted.
func (c *Console) Simulate(ctx context.Context, m *robofsm.Machine, title string, steps []robofsm.Step) (*robofsm.Result, error) {
	r := robofsm.NewRunner()
	r.Input = c.in
	r.Output = c.out
	r.Headless = c.opts.Auto

	if c.opts.Sessions != nil && c.opts.SessionID != "" {
		if err := c.resume(ctx, m); err != nil {
			return nil, err
		}
		r.OnStep = func(ctx context.Context, s domain.Snapshot) error {
			return c.opts.Sessions.Save(ctx, c.opts.SessionID, s)
		}
	} else {
		m.Reset()
	}

	res, err := r.Run(ctx, m, title, steps)
	if err != nil {
		return res, err
	}
	c.logger.Info("simulation finished",
		"play", m.Name,
		"sent", res.Sent,
		"final", res.Final,
		"success", res.Success,
	)
	if res.Final && c.opts.Styled {
		c.printf("Outcome: %s\n", tui.Outcome(c.out, res.Success))
	}
	return res, nil
}

func (c *Console) resume(ctx context.Context, m *robofsm.Machine) error {
	id := c.opts.SessionID
	resumed, err := c.opts.Sessions.Resume(ctx, id, m)
	if err != nil {
		if errors.Is(err, domain.ErrPlayMismatch) {
			return fmt.Errorf("session '%s' cannot run play %s: %w", id, m.Name, err)
		}
		return err
	}

	if !resumed {
		c.printf(">>> Session '%s' active.\n", id)
		return nil
	}
	if m.Current().Final {
		c.printf(">>> Session '%s' already finished at '%s'. Starting over.\n", id, m.Current().Name)
		m.Reset()
		return c.opts.Sessions.Save(ctx, id, m.Snapshot())
	}
	c.printf(">>> Resuming session '%s' at '%s' state...\n", id, m.Current().Name)
	return nil
}

package console

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// Interrupted is the cancellation cause recorded when a signal stops the program.
type Interrupted struct {
	Signal os.Signal
}

func (i Interrupted) Error() string {
	return "interrupted by " + i.Signal.String()
}

// NotifyContext returns a context cancelled on SIGINT or SIGTERM with an
// Interrupted cause. Call stop to release the signal handler.
func NotifyContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			cancel(Interrupted{Signal: sig})
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}

// InterruptSignal returns the signal that cancelled ctx, or nil.
func InterruptSignal(ctx context.Context) os.Signal {
	var i Interrupted
	if errors.As(context.Cause(ctx), &i) {
		return i.Signal
	}
	return nil
}

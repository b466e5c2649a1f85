package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.SnapshotStore
	logger *slog.Logger
}

// Logging logs every store operation at Debug, and failures at Warn.
// A missing session on Load is not a failure.
func Logging(logger *slog.Logger) Middleware {
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, sessionID string, start time.Time, err error) {
	attrs := []any{"op", op, "session_id", sessionID, "duration", time.Since(start)}
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.WarnContext(ctx, "store operation failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store operation", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, sessionID string, snapshot *domain.Snapshot) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, snapshot)
	m.log(ctx, "save", sessionID, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	start := time.Now()
	s, err := m.next.Load(ctx, sessionID)
	m.log(ctx, "load", sessionID, start, err)
	return s, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.log(ctx, "delete", sessionID, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return ids, err
}

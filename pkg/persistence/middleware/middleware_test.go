package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/robofsm/pkg/adapters/memory"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/persistence/middleware"
	"github.com/aretw0/robofsm/pkg/ports"
	"github.com/aretw0/robofsm/pkg/ports/tests"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Contract(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm, err := middleware.NewStoreMetrics(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.Chain(memory.NewStore(), middleware.Logging(logger), sm.Middleware())

	tests.SnapshotStoreContract(t, store)
	assert.Contains(t, logs.String(), "op=save")
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.SnapshotStore) ports.SnapshotStore {
			order = append(order, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, order, "inner wraps the store first")
}

func TestLogging_NotFoundIsQuiet(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store := middleware.Logging(logger)(memory.NewStore())

	_, err := store.Load(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Empty(t, logs.String())
}

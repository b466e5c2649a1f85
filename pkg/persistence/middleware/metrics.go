package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics counts and times store operations.
type StoreMetrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewStoreMetrics registers robofsm_store_operations_total{op,result} and
// robofsm_store_operation_seconds{op} on reg.
func NewStoreMetrics(reg prometheus.Registerer) (*StoreMetrics, error) {
	m := &StoreMetrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robofsm_store_operations_total",
			Help: "Total number of session store operations by operation and result (ok, not_found, error)",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "robofsm_store_operation_seconds",
			Help:    "Latency of session store operations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"op"}),
	}
	for _, c := range []prometheus.Collector{m.ops, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register store metrics: %w", err)
		}
	}
	return m, nil
}

// Middleware returns the instrumenting store decorator.
func (m *StoreMetrics) Middleware() Middleware {
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &metricsMiddleware{next: next, m: m}
	}
}

func (m *StoreMetrics) observe(op string, start time.Time, err error) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := "ok"
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	m.ops.WithLabelValues(op, result).Inc()
}

type metricsMiddleware struct {
	next ports.SnapshotStore
	m    *StoreMetrics
}

func (s *metricsMiddleware) Save(ctx context.Context, sessionID string, snapshot *domain.Snapshot) error {
	start := time.Now()
	err := s.next.Save(ctx, sessionID, snapshot)
	s.m.observe("save", start, err)
	return err
}

func (s *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	start := time.Now()
	snap, err := s.next.Load(ctx, sessionID)
	s.m.observe("load", start, err)
	return snap, err
}

func (s *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := s.next.Delete(ctx, sessionID)
	s.m.observe("delete", start, err)
	return err
}

func (s *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.next.List(ctx)
	s.m.observe("list", start, err)
	return ids, err
}

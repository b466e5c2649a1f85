package config

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/robofsm/pkg/adapters/file"
	"github.com/aretw0/robofsm/pkg/adapters/memory"
	"github.com/aretw0/robofsm/pkg/adapters/redis"
	"github.com/aretw0/robofsm/pkg/persistence/middleware"
	"github.com/aretw0/robofsm/pkg/ports"
	"github.com/aretw0/robofsm/pkg/session"
)

// OpenStore creates the snapshot store selected by store.backend.
// The returned close function releases backend connections.
func (c *Config) OpenStore() (ports.SnapshotStore, func() error, error) {
	noop := func() error { return nil }
	switch c.Store.Backend {
	case BackendMemory:
		return memory.NewStore(), noop, nil
	case BackendFile, "":
		return file.NewStore(c.Store.Dir), noop, nil
	case BackendRedis:
		r := c.Store.Redis
		var opts []redis.Option
		if r.Prefix != "" {
			opts = append(opts, redis.WithPrefix(r.Prefix))
		}
		if r.TTL > 0 {
			opts = append(opts, redis.WithTTL(r.TTL))
		}
		s := redis.New(r.Addr, r.Password, r.DB, opts...)
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}

// OpenSessions wraps the configured store, decorated by mws, in a session
// manager. The redis backend also provides the distributed lock so several
// processes can share sessions.
func (c *Config) OpenSessions(logger *slog.Logger, mws ...middleware.Middleware) (*session.Manager, func() error, error) {
	store, closeFn, err := c.OpenStore()
	if err != nil {
		return nil, nil, err
	}

	var opts []session.Option
	if logger != nil {
		opts = append(opts, session.WithLogger(logger))
	}
	if rs, ok := store.(*redis.Store); ok {
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), c.Store.Redis.Prefix)))
	}
	return session.NewManager(middleware.Chain(store, mws...), opts...), closeFn, nil
}

// Package platform opens the store and lock backends selected by config and
// builds the ApplicationService on top of them.
package platform

import (
	"context"
	"fmt"

	"fieldops/internal/app"
	"fieldops/internal/config"
	"fieldops/internal/core"
	"fieldops/internal/db"
	"fieldops/internal/lock"
	"fieldops/internal/store/memory"
	"fieldops/internal/store/postgres"
	"fieldops/internal/timeutil"

	"go.uber.org/zap"
)

// Runtime is everything a process needs to serve requests.
type Runtime struct {
	Service app.ApplicationService
	Store   core.Store

	closers []func()
}

// Close releases connections in reverse order of opening.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// Open connects the configured store and, when REDIS_ADDR is set, the Redis
// lock backend. Without Redis, completions are serialised only by the store
// transaction.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	rt := &Runtime{}

	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		rt.Store = memory.New()
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		rt.Store = postgres.New(pool)
	}

	var locker core.Locker
	if cfg.RedisAddr != "" {
		rdb, err := lock.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		rt.closers = append(rt.closers, func() { _ = rdb.Close() })
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, logger)
		logger.Info("redis lock backend enabled", zap.String("addr", cfg.RedisAddr))
	}

	clock := timeutil.SystemClock{Location: cfg.Location}
	rt.Service = app.NewAppService(rt.Store, locker, clock, logger)
	return rt, nil
}

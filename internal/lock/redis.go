// Package lock provides a Redis-backed core.Locker.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldops/internal/core"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "fieldops:lock:"

// Connect opens a Redis client and checks it with PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		PoolSize: 20,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisLocker holds per-record locks in Redis so concurrent processes do
// not interleave the read-modify-write of one record.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
	logger *zap.Logger
}

// NewRedisLocker builds a locker whose locks expire after ttl. Lock waits
// up to roughly ttl for a busy key before giving up.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	backoff := 100 * time.Millisecond
	attempts := int(ttl / backoff)
	if attempts < 1 {
		attempts = 1
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(backoff), attempts),
		logger: logger,
	}
}

var _ core.Locker = (*RedisLocker)(nil)

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", core.ErrBusy, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func() {
		// Release must run even when the request context is already done.
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release redis lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

package lock_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"fieldops/internal/core"
	"fieldops/internal/lock"

	"github.com/google/uuid"
)

func setupLocker(t *testing.T, ttl time.Duration) *lock.RedisLocker {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis lock test")
	}
	rdb, err := lock.Connect(context.Background(), addr, os.Getenv("TEST_REDIS_PASSWORD"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return lock.NewRedisLocker(rdb, ttl, nil)
}

func TestRedisLocker_ExcludesSecondHolder(t *testing.T) {
	l := setupLocker(t, 300*time.Millisecond)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	release, err := l.Lock(ctx, key)
	if err != nil {
		t.Fatalf("first Lock failed: %v", err)
	}

	_, err = l.Lock(ctx, key)
	if !errors.Is(err, core.ErrBusy) {
		t.Fatalf("expected ErrBusy while held, got %v", err)
	}

	release()
	release2, err := l.Lock(ctx, key)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	release2()
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	l := setupLocker(t, 2*time.Second)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	release, err := l.Lock(ctx, key)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	go func() {
		time.Sleep(200 * time.Millisecond)
		release()
	}()

	start := time.Now()
	release2, err := l.Lock(ctx, key)
	if err != nil {
		t.Fatalf("waiting Lock failed: %v", err)
	}
	defer release2()
	if time.Since(start) < 150*time.Millisecond {
		t.Error("second Lock returned before the first was released")
	}
}

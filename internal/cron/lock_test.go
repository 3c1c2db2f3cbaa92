package cron

import (
	"context"
	"testing"
	"time"

	"github.com/agentops/licensetrack/pkg/config"
	pkgredis "github.com/agentops/licensetrack/pkg/redis"
	"github.com/alicebob/miniredis/v2"
)

func newRedisLock(t *testing.T, mr *miniredis.Miniredis) *RedisLock {
	t.Helper()
	client, err := pkgredis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	lock, err := NewRedisLock(client, client.LockKey(LockName), time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	return lock
}

func TestRedisLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	first := newRedisLock(t, mr)
	second := newRedisLock(t, mr)

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("second acquire should fail, ok=%v err=%v", ok, err)
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release by non-owner: %v", err)
	}
	if !mr.Exists("licensetrack:lock:cron-cycle") {
		t.Fatal("non-owner release must not delete the lock")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire after release ok=%v err=%v", ok, err)
	}
}

func TestRedisLockExpiredOwnerDoesNotDeleteNewHolder(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	first := newRedisLock(t, mr)
	second := newRedisLock(t, mr)

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire ok=%v err=%v", ok, err)
	}
	mr.FastForward(2 * time.Minute)
	if ok, err := second.Acquire(ctx); err != nil || !ok {
		t.Fatalf("second acquire after expiry ok=%v err=%v", ok, err)
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if !mr.Exists("licensetrack:lock:cron-cycle") {
		t.Fatal("stale owner must not release the new holder's lock")
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", time.Minute); err == nil {
		t.Fatal("expected nil client error")
	}
	mr := miniredis.RunT(t)
	client, err := pkgredis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()
	if _, err := NewRedisLock(client, "", time.Minute); err == nil {
		t.Fatal("expected empty key error")
	}
}

func TestRedisLockExtend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	lock := newRedisLock(t, mr)

	if ok, err := lock.Extend(ctx); err != nil || ok {
		t.Fatalf("extend before acquire ok=%v err=%v", ok, err)
	}
	if ok, err := lock.Acquire(ctx); err != nil || !ok {
		t.Fatalf("acquire ok=%v err=%v", ok, err)
	}
	mr.FastForward(50 * time.Second)
	if ok, err := lock.Extend(ctx); err != nil || !ok {
		t.Fatalf("extend ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL("licensetrack:lock:cron-cycle"); ttl != time.Minute {
		t.Fatalf("expected ttl reset to 1m, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if ok, err := lock.Extend(ctx); err != nil || ok {
		t.Fatalf("extend after expiry ok=%v err=%v", ok, err)
	}
}

package cron

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taeyang999/xposconnect-sub000/pkg/instance"
	"github.com/taeyang999/xposconnect-sub000/pkg/redis"
)

func newLockClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return redis.NewWithClient(raw), mr
}

func TestRedisLockIsExclusive(t *testing.T) {
	client, mr := newLockClient(t)
	ctx := context.Background()
	key := client.CronLockKey("test")

	first, err := NewRedisLock(client, key, time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(client, key, time.Minute)

	t.Setenv(instance.EnvWorkerID, "cron-a")
	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if got, _ := mr.Get(key); got != first.Holder() || !strings.HasPrefix(got, "cron-a/") {
		t.Fatalf("unexpected holder token %q", got)
	}
	if ok, err := second.Acquire(ctx); err != nil || ok {
		t.Fatalf("second acquire should fail: ok=%v err=%v", ok, err)
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("non-owner release: %v", err)
	}
	if !mr.Exists(key) {
		t.Fatal("non-owner release removed the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("owner release: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("expected lock removed")
	}
}

func TestRedisLockReleaseAfterExpiry(t *testing.T) {
	client, mr := newLockClient(t)
	ctx := context.Background()
	lock, _ := NewRedisLock(client, client.CronLockKey(""), time.Second)

	if ok, err := lock.Acquire(ctx); err != nil || !ok {
		t.Fatalf("acquire: ok=%v err=%v", ok, err)
	}
	mr.FastForward(2 * time.Second)
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release after expiry: %v", err)
	}
	if lock.Holder() != "" {
		t.Fatal("holder should be cleared after release")
	}
}

func TestRedisLockReleaseKeepsReacquiredLock(t *testing.T) {
	client, mr := newLockClient(t)
	ctx := context.Background()
	key := client.CronLockKey("test")
	stale, _ := NewRedisLock(client, key, time.Second)
	fresh, _ := NewRedisLock(client, key, time.Minute)

	if ok, err := stale.Acquire(ctx); err != nil || !ok {
		t.Fatalf("stale acquire: ok=%v err=%v", ok, err)
	}
	mr.FastForward(2 * time.Second)
	if ok, err := fresh.Acquire(ctx); err != nil || !ok {
		t.Fatalf("fresh acquire: ok=%v err=%v", ok, err)
	}

	if err := stale.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if got, _ := mr.Get(key); got != fresh.Holder() {
		t.Fatalf("stale holder removed the new lock, key=%q", got)
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", 0); err == nil {
		t.Fatal("expected error without client")
	}
	client, _ := newLockClient(t)
	if _, err := NewRedisLock(client, "", 0); err == nil {
		t.Fatal("expected error without key")
	}
}

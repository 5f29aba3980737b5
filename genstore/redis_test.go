package genstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisGenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := NewRedisGenStore(RedisConfig{Client: rdb, Namespace: "user", TTL: ttl, CloseClient: true})
	if err != nil {
		t.Fatalf("NewRedisGenStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, mr
}

func TestNewRedisGenStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisGenStore(RedisConfig{}); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestRedisSnapshotAndBump(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, 0)

	if g, err := s.Snapshot(ctx, "k"); err != nil || g != 0 {
		t.Fatalf("Snapshot(missing) = %d %v, want 0", g, err)
	}
	for want := uint64(1); want <= 3; want++ {
		g, err := s.Bump(ctx, "k")
		if err != nil || g != want {
			t.Fatalf("Bump = %d %v, want %d", g, err, want)
		}
	}
	if g, _ := s.Snapshot(ctx, "k"); g != 3 {
		t.Fatalf("Snapshot = %d, want 3", g)
	}
	if v, err := mr.Get("memo:gen:user:k"); err != nil || v != "3" {
		t.Fatalf("stored gen = %q %v", v, err)
	}
	if mr.TTL("memo:gen:user:k") != 0 {
		t.Fatalf("gen key got a TTL with TTL disabled")
	}
}

func TestRedisBumpRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, time.Hour)

	if _, err := s.Bump(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("memo:gen:user:k"); ttl != time.Hour {
		t.Fatalf("TTL = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if g, _ := s.Snapshot(ctx, "k"); g != 0 {
		t.Fatalf("expired gen reads %d, want 0", g)
	}
}

func TestRedisSnapshotRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t, 0)

	_ = mr.Set("memo:gen:user:k", "not-a-number")
	if _, err := s.Snapshot(ctx, "k"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRedisStoresAreNamespaced(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	a, _ := NewRedisGenStore(RedisConfig{Client: rdb, Namespace: "a"})
	b, _ := NewRedisGenStore(RedisConfig{Client: rdb, Namespace: "b"})
	_, _ = a.Bump(ctx, "k")
	if g, _ := b.Snapshot(ctx, "k"); g != 0 {
		t.Fatalf("namespace b sees a's generation %d", g)
	}
}

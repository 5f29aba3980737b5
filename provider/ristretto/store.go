package ristretto

import (
	"context"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/memoize"
	"github.com/unkn0wn-root/memoize/internal/keyutil"
)

// Store is a memoize.Cache[V] holding values in process, deferred results
// included. Entries may be dropped by ristretto at any time; the memoizer
// then recomputes on the next call.
type Store[V any] struct {
	c    *rc.Cache
	ttl  time.Duration
	cost func(V) int64
}

var _ memoize.Cache[int] = (*Store[int])(nil)

// StoreConfig extends Config with per-entry settings.
type StoreConfig[V any] struct {
	Config
	TTL  time.Duration // <=0 => no expiry
	Cost func(V) int64 // nil => 1
}

func NewStore[V any](cfg StoreConfig[V]) (*Store[V], error) {
	c, err := newCache(cfg.Config)
	if err != nil {
		return nil, err
	}
	s := &Store[V]{c: c, ttl: cfg.TTL, cost: cfg.Cost}
	if s.cost == nil {
		s.cost = func(V) int64 { return 1 }
	}
	return s, nil
}

// ristretto hashes only a few key kinds; everything goes through its string form.
func (s *Store[V]) key(key any) string {
	return keyutil.String(keyutil.Identity(key))
}

func (s *Store[V]) Has(_ context.Context, key any) (bool, error) {
	k := s.key(key)
	_, ok := s.c.Get(k)
	return ok, nil
}

func (s *Store[V]) Get(_ context.Context, key any) (V, error) {
	var zero V
	k := s.key(key)
	v, ok := s.c.Get(k)
	if !ok {
		return zero, memoize.ErrNotFound
	}
	out, _ := v.(V)
	return out, nil
}

func (s *Store[V]) Set(_ context.Context, key any, value V) error {
	k := s.key(key)
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	s.c.SetWithTTL(k, value, s.cost(value), ttl)
	s.c.Wait()
	return nil
}

func (s *Store[V]) Delete(_ context.Context, key any) error {
	k := s.key(key)
	s.c.Del(k)
	return nil
}

func (s *Store[V]) Close() { s.c.Close() }

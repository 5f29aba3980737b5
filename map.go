package memoize

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/memoize/internal/keyutil"
)

// Map is the default Cache: an unbounded in-process map with no eviction.
// It is safe for concurrent use because failure eviction runs on its own
// goroutine. Keys that cannot be compared are stored by reference.
type Map[V any] struct {
	mu sync.RWMutex
	m  map[any]V
}

var _ Cache[int] = (*Map[int])(nil)

func NewMap[V any]() *Map[V] {
	return &Map[V]{m: make(map[any]V)}
}

func (c *Map[V]) Has(_ context.Context, key any) (bool, error) {
	c.mu.RLock()
	_, ok := c.m[keyutil.Identity(key)]
	c.mu.RUnlock()
	return ok, nil
}

func (c *Map[V]) Get(_ context.Context, key any) (V, error) {
	c.mu.RLock()
	v, ok := c.m[keyutil.Identity(key)]
	c.mu.RUnlock()
	if !ok {
		return v, ErrNotFound
	}
	return v, nil
}

func (c *Map[V]) Set(_ context.Context, key any, value V) error {
	c.mu.Lock()
	c.m[keyutil.Identity(key)] = value
	c.mu.Unlock()
	return nil
}

func (c *Map[V]) Delete(_ context.Context, key any) error {
	c.mu.Lock()
	delete(c.m, keyutil.Identity(key))
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (c *Map[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

package memoize

import "sync"

// claims records which write owns a key while a Deferred it stored is still
// pending. A claim lives from the write until the Deferred settles or a later
// write to the same key takes over, so the table only holds pending keys.
type claims struct {
	mu  sync.Mutex
	seq uint64
	m   map[any]uint64
}

func newClaims() *claims { return &claims{m: make(map[any]uint64)} }

// claim makes the caller the owner of key and returns its token.
func (c *claims) claim(key any) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.m[key] = c.seq
	return c.seq
}

// finish ends the claim identified by token. If the claim still owned key,
// evict (when non-nil) runs before the lock is released, so no new claim on
// key can interleave with it.
func (c *claims) finish(key any, token uint64, evict func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.m[key]; !ok || cur != token {
		return false
	}
	delete(c.m, key)
	if evict != nil {
		evict()
	}
	return true
}

func (c *claims) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Package asynchook moves memoize.Hooks calls off the call path.
//
// Events are queued to a fixed worker pool and dropped when the queue is
// full, so a slow sink never slows a memoized function down.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{HitEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	fetch := memoize.Memoize1(load, memoize.Options[*future.Future[User]]{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/memoize"
)

type Hooks struct {
	inner   memoize.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

var _ memoize.Hooks = (*Hooks)(nil)

func New(inner memoize.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped returns how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	if h.closed.Load() {
		h.dropped.Add(1)
		return
	}
	defer func() {
		// lost the race with Close: send on closed channel
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Hit(k any)                 { h.try(func() { h.inner.Hit(k) }) }
func (h *Hooks) Miss(k any)                { h.try(func() { h.inner.Miss(k) }) }
func (h *Hooks) Stored(k any, d bool)      { h.try(func() { h.inner.Stored(k, d) }) }
func (h *Hooks) EvictSkipped(k any)        { h.try(func() { h.inner.EvictSkipped(k) }) }
func (h *Hooks) EvictError(k any, e error) { h.try(func() { h.inner.EvictError(k, e) }) }
func (h *Hooks) EvictedOnFailure(k any, cause error) {
	h.try(func() { h.inner.EvictedOnFailure(k, cause) })
}

// Package future provides a settle-once handle for results computed
// asynchronously. A Future is what a memoized function returns when its work
// finishes later; the memoizer stores the handle itself so every caller that
// asks before completion shares the same computation.
//
// Consumers read a Future with Await or Result. Both mark a failure as
// handled. Done and Peek let a bystander watch for settlement and inspect the
// failure without consuming it, so a Tracker still reports failures nobody
// awaited.
package future

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Future is the eventual result of an asynchronous computation.
type Future[T any] struct {
	done    chan struct{}
	once    sync.Once
	val     T
	err     error
	handled atomic.Bool
	tracker *Tracker
}

// PanicError is the failure of a Go function that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("future: panic: %v", e.Value) }

// Option configures a Future at creation.
type Option func(*config)

type config struct {
	tracker *Tracker
}

// WithTracker registers the future with t so unhandled failures are reported.
func WithTracker(t *Tracker) Option {
	return func(c *config) { c.tracker = t }
}

func newFuture[T any](opts []Option) *Future[T] {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	return &Future[T]{done: make(chan struct{}), tracker: cfg.tracker}
}

// New returns a pending future and the function that settles it.
// Only the first call to settle has an effect.
func New[T any](opts ...Option) (*Future[T], func(T, error)) {
	f := newFuture[T](opts)
	return f, f.settle
}

// Go runs fn on its own goroutine and returns a future for its result.
// A panic inside fn settles the future with a *PanicError.
func Go[T any](fn func() (T, error), opts ...Option) *Future[T] {
	f := newFuture[T](opts)
	go func() {
		var (
			v   T
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.settle(zero, &PanicError{Value: r, Stack: debug.Stack()})
				return
			}
			f.settle(v, err)
		}()
		v, err = fn()
	}()
	return f
}

// Resolve returns a future already settled with v.
func Resolve[T any](v T, opts ...Option) *Future[T] {
	f := newFuture[T](opts)
	f.settle(v, nil)
	return f
}

// Reject returns a future already settled with err.
func Reject[T any](err error, opts ...Option) *Future[T] {
	f := newFuture[T](opts)
	var zero T
	f.settle(zero, err)
	return f
}

func (f *Future[T]) settle(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		if err != nil && f.tracker != nil {
			f.tracker.track(f, err)
		}
		close(f.done)
	})
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Peek returns the failure of a settled future, or nil while it is pending or
// when it succeeded. Peek does not mark the failure handled.
func (f *Future[T]) Peek() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Result blocks until the future settles and returns its outcome.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	f.observe()
	return f.val, f.err
}

// Await is Result bounded by ctx. Giving up on ctx does not count as
// handling a later failure.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) observe() {
	if f.err == nil || !f.handled.CompareAndSwap(false, true) {
		return
	}
	if f.tracker != nil {
		f.tracker.forget(f)
	}
}

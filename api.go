package memoize

import "context"

// Func is the untyped shape every memoized function is reduced to.
// ctx is forwarded to the function and to the backend; it is not part of the
// argument list handed to the HashFunc.
type Func[R any] func(ctx context.Context, args ...any) (R, error)

// HashFunc derives a cache key from the full argument list of a call.
// The key must be usable by the configured Cache (comparable for Map).
type HashFunc func(args ...any) (any, error)

// Cache is the storage capability the memoizer needs. Any structure that
// implements these four operations qualifies; eviction policy is its own.
type Cache[V any] interface {
	Has(ctx context.Context, key any) (bool, error)
	// Get is only called after Has reported true for key.
	Get(ctx context.Context, key any) (V, error)
	Set(ctx context.Context, key any, value V) error
	// Delete is only called when a stored Deferred settles with failure.
	Delete(ctx context.Context, key any) error
}

// Deferred is implemented by asynchronous results (e.g. *future.Future).
// Peek must report the failure of a settled result without consuming it.
type Deferred interface {
	Done() <-chan struct{}
	Peek() error
}

// Options configure a memoized function. All fields are optional.
type Options[R any] struct {
	Hash   HashFunc // nil => first argument by identity
	Cache  Cache[R] // nil => a fresh Map per Memoize call
	Logger Logger   // nil => NopLogger
	Hooks  Hooks    // nil => NopHooks

	// Coalesce shares one invocation between goroutines that miss the same
	// key at the same time. Off by default.
	Coalesce bool
}

// Memoize returns fn wrapped with memoization.
func Memoize[R any](fn Func[R], opts Options[R]) Func[R] {
	return newMemoizer(fn, opts).call
}

// Memoize1 is Memoize for a one-argument function.
func Memoize1[A1, R any](fn func(context.Context, A1) (R, error), opts Options[R]) func(context.Context, A1) (R, error) {
	m := Memoize(func(ctx context.Context, args ...any) (R, error) {
		return fn(ctx, arg[A1](args, 0))
	}, opts)
	return func(ctx context.Context, a1 A1) (R, error) {
		return m(ctx, a1)
	}
}

// Memoize2 is Memoize for a two-argument function. The default key is still
// the first argument; pass HashArgs to key on both.
func Memoize2[A1, A2, R any](fn func(context.Context, A1, A2) (R, error), opts Options[R]) func(context.Context, A1, A2) (R, error) {
	m := Memoize(func(ctx context.Context, args ...any) (R, error) {
		return fn(ctx, arg[A1](args, 0), arg[A2](args, 1))
	}, opts)
	return func(ctx context.Context, a1 A1, a2 A2) (R, error) {
		return m(ctx, a1, a2)
	}
}

// Memoize3 is Memoize for a three-argument function.
func Memoize3[A1, A2, A3 any, R any](fn func(context.Context, A1, A2, A3) (R, error), opts Options[R]) func(context.Context, A1, A2, A3) (R, error) {
	m := Memoize(func(ctx context.Context, args ...any) (R, error) {
		return fn(ctx, arg[A1](args, 0), arg[A2](args, 1), arg[A3](args, 2))
	}, opts)
	return func(ctx context.Context, a1 A1, a2 A2, a3 A3) (R, error) {
		return m(ctx, a1, a2, a3)
	}
}

// arg extracts args[i] as A; a nil interface becomes the zero A.
func arg[A any](args []any, i int) A {
	a, _ := args[i].(A)
	return a
}

// Package memoize wraps a function so that repeated calls with equivalent
// arguments reuse a previously computed result instead of recomputing it.
//
// Components:
//   - HashFunc: derives the cache key from the full argument list. Defaults to
//     the first argument, compared by identity.
//   - Cache[V]: storage backend with Has/Get/Set/Delete. Map (in-process,
//     unbounded) by default; ProviderCache adapts byte stores such as Redis,
//     BigCache or Ristretto.
//   - Deferred: asynchronous results (see package future). A deferred result
//     is stored as soon as it is returned, so callers arriving before it
//     settles share it, and is evicted if it settles with failure.
//
// Usage:
//
//	fetch := memoize.Memoize1(func(ctx context.Context, id string) (*future.Future[User], error) {
//	    return future.Go(func() (User, error) { return db.Load(ctx, id) }), nil
//	}, memoize.Options[*future.Future[User]]{})
//
//	f, _ := fetch(ctx, "42") // starts the load
//	g, _ := fetch(ctx, "42") // same *Future while in flight or after success
//	u, err := f.Await(ctx)   // on failure the entry is dropped; the next call retries
//
// The memoizer does not serialize calls: parallel misses on one key each
// invoke the function unless Options.Coalesce is set. Backends shared between
// goroutines must be safe for concurrent use; Map and ProviderCache are.
package memoize

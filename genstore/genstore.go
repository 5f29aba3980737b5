// Package genstore keeps a generation counter per storage key.
//
// The memoizer bumps a key's generation each time it stores a deferred
// result and compares it again when that result fails, so an old failure
// never deletes a newer entry. ProviderCache frames every entry with the
// generation it was written under and treats a mismatch as a miss.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where generations live.
// Use LocalGenStore (default) for in-process gens, or RedisGenStore to share
// them across processes.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, storageKey string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, storageKey string) (uint64, error)
	// Cleanup prunes old metadata if applicable (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}

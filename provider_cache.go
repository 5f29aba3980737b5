package memoize

import (
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/memoize/codec"
	gen "github.com/unkn0wn-root/memoize/genstore"
	"github.com/unkn0wn-root/memoize/internal/keyutil"
	"github.com/unkn0wn-root/memoize/internal/wire"
	pr "github.com/unkn0wn-root/memoize/provider"
)

const (
	defaultTTL          = 10 * time.Minute
	defaultGenRetention = 30 * 24 * time.Hour
	defaultSweep        = time.Hour
)

// SetCostFunc returns the provider cost of an encoded entry.
type SetCostFunc func(storageKey string, raw []byte) int64

// ProviderOptions configure a ProviderCache.
// Namespace, Provider and Codec are required.
type ProviderOptions[V any] struct {
	Namespace string // isolates keys: memo:<ns>:<key>
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger          Logger        // nil => NopLogger
	TTL             time.Duration // 0 => 10m; <0 => no expiry
	CleanupInterval time.Duration // 0 => 1h
	GenRetention    time.Duration // 0 => 30d
	ComputeSetCost  SetCostFunc   // nil => 1
	GenStore        gen.GenStore  // nil => LocalGenStore (in-process)
}

// ProviderCache is a Cache over a byte Provider. Values are encoded with the
// Codec and framed with the generation observed at write time; Delete bumps
// the generation, so entries written before it read as misses even on
// replicas that still hold them (with a shared GenStore).
type ProviderCache[V any] struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[V]
	log            Logger
	ttl            time.Duration
	computeSetCost SetCostFunc
	gen            gen.GenStore
}

var _ Cache[string] = (*ProviderCache[string])(nil)

func NewProviderCache[V any](opts ProviderOptions[V]) (*ProviderCache[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("memoize: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("memoize: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("memoize: namespace is required")
	}

	pc := &ProviderCache[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
	}

	// defaults
	pc.log = coalesce[Logger](opts.Logger, NopLogger{})
	pc.ttl = coalesce(opts.TTL, defaultTTL)
	if pc.ttl < 0 {
		pc.ttl = 0 // providers treat ttl<=0 as no expiry
	}

	if opts.ComputeSetCost != nil {
		pc.computeSetCost = opts.ComputeSetCost
	} else {
		pc.computeSetCost = func(string, []byte) int64 { return 1 }
	}

	if opts.GenStore != nil {
		pc.gen = opts.GenStore
	} else {
		pc.gen = gen.NewLocalGenStore(
			coalesce(opts.CleanupInterval, defaultSweep),
			coalesce(opts.GenRetention, defaultGenRetention),
		)
	}
	return pc, nil
}

// Close releases the gen store (best effort) and the provider.
func (pc *ProviderCache[V]) Close(ctx context.Context) error {
	if pc.gen != nil {
		_ = pc.gen.Close(ctx)
	}
	return pc.provider.Close(ctx)
}

func (pc *ProviderCache[V]) Has(ctx context.Context, key any) (bool, error) {
	_, ok, err := pc.lookup(ctx, key)
	return ok, err
}

func (pc *ProviderCache[V]) Get(ctx context.Context, key any) (V, error) {
	v, ok, err := pc.lookup(ctx, key)
	if err == nil && !ok {
		err = ErrNotFound
	}
	return v, err
}

func (pc *ProviderCache[V]) Set(ctx context.Context, key any, value V) error {
	if _, ok := asDeferred(value); ok {
		return ErrDeferredValue
	}
	k := pc.storageKey(key)
	payload, err := pc.codec.Encode(value)
	if err != nil {
		return err
	}
	raw := wire.Encode(pc.snapshotGen(ctx, k), payload)
	ok, err := pc.provider.Set(ctx, k, raw, pc.computeSetCost(k, raw), pc.ttl)
	if err != nil {
		return err
	}
	if !ok {
		pc.log.Debug("Set rejected by provider (pressure)", Fields{"key": k})
	}
	return nil
}

// Delete bumps the key's generation and removes the entry. It fails only
// when both steps fail; either one alone already hides the entry.
func (pc *ProviderCache[V]) Delete(ctx context.Context, key any) error {
	k := pc.storageKey(key)
	newGen, bumpErr := pc.gen.Bump(ctx, k)
	delErr := pc.provider.Del(ctx, k)
	if bumpErr != nil && delErr != nil {
		return &DeleteError{Key: k, BumpErr: bumpErr, DelErr: delErr}
	}
	if bumpErr != nil {
		pc.log.Warn("gen bump error on delete", Fields{"key": k, "err": bumpErr})
	}
	if delErr != nil {
		pc.log.Warn("provider delete error", Fields{"key": k, "err": delErr})
	}
	pc.log.Debug("deleted key (bumped gen + cleared entry)", Fields{"key": k, "newGen": newGen})
	return nil
}

func (pc *ProviderCache[V]) lookup(ctx context.Context, key any) (V, bool, error) {
	var zero V
	k := pc.storageKey(key)
	raw, ok, err := pc.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	g, payload, err := wire.Decode(raw)
	if err != nil {
		pc.selfHeal(ctx, k, "corrupt")
		return zero, false, nil
	}
	if g != pc.snapshotGen(ctx, k) {
		pc.selfHeal(ctx, k, "gen_mismatch")
		return zero, false, nil
	}
	v, err := pc.codec.Decode(payload)
	if err != nil {
		pc.selfHeal(ctx, k, "value_decode")
		return zero, false, nil
	}
	return v, true, nil
}

func (pc *ProviderCache[V]) selfHeal(ctx context.Context, k, reason string) {
	_ = pc.provider.Del(ctx, k)
	pc.log.Debug("self-healed entry", Fields{"key": k, "reason": reason})
}

func (pc *ProviderCache[V]) snapshotGen(ctx context.Context, storageKey string) uint64 {
	g, err := pc.gen.Snapshot(ctx, storageKey)
	if err != nil {
		// conservative: 0 makes fresh entries from bumped keys read as stale
		pc.log.Warn("gen snapshot error", Fields{"key": storageKey, "err": err})
		return 0
	}
	return g
}

func (pc *ProviderCache[V]) storageKey(key any) string {
	return "memo:" + pc.ns + ":" + keyutil.String(keyutil.Identity(key))
}

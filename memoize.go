package memoize

import (
	"context"
	"reflect"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/memoize/internal/keyutil"
)

type memoizer[R any] struct {
	fn     Func[R]
	hash   HashFunc
	cache  Cache[R]
	claims *claims
	log    Logger
	hooks  Hooks
	sf     *singleflight.Group // nil unless Options.Coalesce
}

func newMemoizer[R any](fn Func[R], opts Options[R]) *memoizer[R] {
	if fn == nil {
		panic("memoize: nil function")
	}
	m := &memoizer[R]{
		fn:     fn,
		hash:   opts.Hash,
		cache:  opts.Cache,
		claims: newClaims(),
	}

	// defaults
	if m.hash == nil {
		m.hash = firstArg
	}
	if m.cache == nil {
		m.cache = NewMap[R]()
	}
	m.log = coalesce[Logger](opts.Logger, NopLogger{})
	m.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.Coalesce {
		m.sf = new(singleflight.Group)
	}
	return m
}

func (m *memoizer[R]) call(ctx context.Context, args ...any) (R, error) {
	var zero R
	key, err := m.hash(args...)
	if err != nil {
		return zero, err
	}
	ok, err := m.cache.Has(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		m.hooks.Hit(key)
		return m.cache.Get(ctx, key)
	}
	m.hooks.Miss(key)

	if m.sf == nil {
		return m.fill(ctx, key, args)
	}
	v, err, _ := m.sf.Do(keyutil.String(keyutil.Identity(key)), func() (any, error) {
		return m.fill(ctx, key, args)
	})
	r, _ := v.(R)
	return r, err
}

// fill invokes fn and stores its result. The Set happens before the result
// is watched, so a Deferred is visible to the next caller while still
// pending. Every write claims the key first; a watcher whose claim was taken
// over leaves the newer entry alone.
func (m *memoizer[R]) fill(ctx context.Context, key any, args []any) (R, error) {
	res, err := m.fn(ctx, args...)
	if err != nil {
		return res, err
	}
	id := keyutil.Identity(key)
	token := m.claims.claim(id)
	if err := m.cache.Set(ctx, key, res); err != nil {
		m.claims.finish(id, token, nil)
		var zero R
		return zero, err
	}
	d, deferred := asDeferred(res)
	m.hooks.Stored(key, deferred)
	if !deferred {
		m.claims.finish(id, token, nil)
		return res, nil
	}
	m.watch(ctx, key, id, token, d)
	return res, nil
}

// watch evicts key once d settles with failure. It only reads d through
// Done and Peek, so the failure stays unconsumed for the real awaiter.
func (m *memoizer[R]) watch(ctx context.Context, key, id any, token uint64, d Deferred) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		<-d.Done()
		failure := d.Peek()
		if failure == nil {
			m.claims.finish(id, token, nil)
			return
		}
		var delErr error
		owned := m.claims.finish(id, token, func() {
			delErr = m.cache.Delete(ctx, key)
		})
		switch {
		case !owned:
			m.log.Debug("eviction skipped (key rewritten)", Fields{"key": key})
			m.hooks.EvictSkipped(key)
		case delErr != nil:
			m.log.Error("evict failed deferred result", Fields{"key": key, "err": delErr})
			m.hooks.EvictError(key, delErr)
		default:
			m.log.Debug("evicted failed deferred result", Fields{"key": key, "cause": failure})
			m.hooks.EvictedOnFailure(key, failure)
		}
	}()
}

func asDeferred(v any) (Deferred, bool) {
	d, ok := v.(Deferred)
	if !ok {
		return nil, false
	}
	if rv := reflect.ValueOf(d); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	return d, true
}

func firstArg(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	return keyutil.Identity(args[0]), nil
}

// HashArgs is a HashFunc keyed on every argument. Arguments are compared
// the way the default key compares the first one: by value, with every
// struct field included, and by reference for pointers, funcs, maps and
// slices.
func HashArgs(args ...any) (any, error) {
	return keyutil.Join(args), nil
}

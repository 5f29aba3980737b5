// Package sloghooks reports memoize.Hooks events to a *slog.Logger.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/memoize"
	"github.com/unkn0wn-root/memoize/internal/keyutil"
)

type Options struct {
	// Sampling to avoid floods on hot paths; 0/1 = log all.
	HitEvery  uint64
	MissEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix of the key's string form.
	Redact func(key any) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ memoize.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k any) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(keyutil.String(keyutil.Identity(k))))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(key any) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("memoize.hit", "key", h.redact(key))
}

func (h *Hooks) Miss(key any) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("memoize.miss", "key", h.redact(key))
}

func (h *Hooks) Stored(key any, deferred bool) {
	if h.l == nil {
		return
	}
	h.l.Debug("memoize.stored", "key", h.redact(key), "deferred", deferred)
}

func (h *Hooks) EvictedOnFailure(key any, cause error) {
	if h.l == nil {
		return
	}
	h.l.Info("memoize.evicted_on_failure", "key", h.redact(key), "cause", cause)
}

func (h *Hooks) EvictSkipped(key any) {
	if h.l == nil {
		return
	}
	h.l.Debug("memoize.evict_skipped", "key", h.redact(key))
}

func (h *Hooks) EvictError(key any, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("memoize.evict_error", "key", h.redact(key), "err", err)
}

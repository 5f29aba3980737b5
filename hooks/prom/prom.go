// Package prom counts memoize.Hooks events with Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/memoize"
)

// Hooks keeps one counter per event. Keys are never used as labels.
type Hooks struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	stored   *prometheus.CounterVec // kind=value|deferred
	evicted  prometheus.Counter
	skipped  prometheus.Counter
	evictErr prometheus.Counter
}

var _ memoize.Hooks = (*Hooks)(nil)

// New registers the counters with reg (prometheus.DefaultRegisterer if nil).
// fn distinguishes memoized functions, e.g. "user_lookup".
func New(reg prometheus.Registerer, namespace, fn string) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "memoize",
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"fn": fn},
		}
	}
	return &Hooks{
		hits:     f.NewCounter(opts("hits_total", "Calls answered from the cache")),
		misses:   f.NewCounter(opts("misses_total", "Calls that invoked the wrapped function")),
		stored:   f.NewCounterVec(opts("stored_total", "Results written to the cache"), []string{"kind"}),
		evicted:  f.NewCounter(opts("evicted_on_failure_total", "Deferred results evicted after failing")),
		skipped:  f.NewCounter(opts("evict_skipped_total", "Failed deferred results whose key was rewritten")),
		evictErr: f.NewCounter(opts("evict_errors_total", "Evictions the backend refused")),
	}
}

func (h *Hooks) Hit(any)  { h.hits.Inc() }
func (h *Hooks) Miss(any) { h.misses.Inc() }
func (h *Hooks) Stored(_ any, deferred bool) {
	kind := "value"
	if deferred {
		kind = "deferred"
	}
	h.stored.WithLabelValues(kind).Inc()
}
func (h *Hooks) EvictedOnFailure(any, error) { h.evicted.Inc() }
func (h *Hooks) EvictSkipped(any)            { h.skipped.Inc() }
func (h *Hooks) EvictError(any, error)       { h.evictErr.Inc() }

package memoize

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The memoizer calls them on every call.
type Hooks interface {
	// Key was present; the stored value is returned without calling fn.
	Hit(key any)
	// Key was absent; fn is about to be invoked.
	Miss(key any)
	// A result was written. deferred reports whether it was a Deferred.
	Stored(key any, deferred bool)

	// A stored Deferred settled with failure and its entry was deleted.
	EvictedOnFailure(key any, cause error)
	// A stored Deferred failed, but a newer write owns the key now.
	EvictSkipped(key any)
	// Deleting a failed Deferred returned an error. The entry may remain.
	EvictError(key any, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(any)                     {}
func (NopHooks) Miss(any)                    {}
func (NopHooks) Stored(any, bool)            {}
func (NopHooks) EvictedOnFailure(any, error) {}
func (NopHooks) EvictSkipped(any)            {}
func (NopHooks) EvictError(any, error)       {}

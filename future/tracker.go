package future

import "sync"

// Tracker collects futures that failed and were never consumed through
// Await or Result. It is the analogue of an unhandled-rejection detector:
// a failure counts as handled only when a consumer reads it.
type Tracker struct {
	// OnUnhandled is called by Sweep for every failure still unhandled.
	OnUnhandled func(err error)

	mu     sync.Mutex
	failed map[any]error
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{failed: make(map[any]error)}
}

func (t *Tracker) track(f any, err error) {
	t.mu.Lock()
	if t.failed == nil {
		t.failed = make(map[any]error)
	}
	t.failed[f] = err
	t.mu.Unlock()
}

func (t *Tracker) forget(f any) {
	t.mu.Lock()
	delete(t.failed, f)
	t.mu.Unlock()
}

// Unhandled returns the failures not yet consumed, in no particular order.
func (t *Tracker) Unhandled() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]error, 0, len(t.failed))
	for _, err := range t.failed {
		out = append(out, err)
	}
	return out
}

// Sweep reports every unhandled failure to OnUnhandled, forgets them and
// returns how many there were. A failure consumed later is not re-reported.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	errs := make([]error, 0, len(t.failed))
	for _, err := range t.failed {
		errs = append(errs, err)
	}
	clear(t.failed)
	t.mu.Unlock()

	if t.OnUnhandled != nil {
		for _, err := range errs {
			t.OnUnhandled(err)
		}
	}
	return len(errs)
}

package memoize

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get for a key that is not stored.
	ErrNotFound = errors.New("memoize: key not found")
	// ErrDeferredValue is returned by byte-backed caches asked to store a
	// Deferred; a pending result has no serialized form.
	ErrDeferredValue = errors.New("memoize: deferred value cannot be serialized")
)

// DeleteError reports that both halves of a ProviderCache delete failed.
type DeleteError struct {
	Key     string
	BumpErr error
	DelErr  error
}

func (e *DeleteError) Error() string {
	switch {
	case e.BumpErr != nil && e.DelErr != nil:
		return fmt.Sprintf("delete %q failed: gen bump and provider delete failed: bump=%v; delete=%v",
			e.Key, e.BumpErr, e.DelErr)
	case e.BumpErr != nil:
		return fmt.Sprintf("delete %q: gen bump failed: %v", e.Key, e.BumpErr)
	case e.DelErr != nil:
		return fmt.Sprintf("delete %q: provider delete failed: %v", e.Key, e.DelErr)
	default:
		return fmt.Sprintf("delete %q: unknown error", e.Key)
	}
}

func (e *DeleteError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}

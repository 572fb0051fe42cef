package share

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "does not exist" and "caller is not
	// authorized"; the two are deliberately indistinguishable so that
	// probing requests cannot learn whether a share exists.
	ErrNotFound = errors.New("share not found")

	// ErrPasswordMissing means the published share requires a password
	// and the caller presented none. Distinct from ErrPasswordMismatch
	// so the boundary can prompt instead of rejecting.
	ErrPasswordMissing  = errors.New("share password required")
	ErrPasswordMismatch = errors.New("share password mismatch")

	ErrValidation = errors.New("invalid request")
)

// QuotaExceededError reports a pre- or post-write quota violation. Any
// partial work of the failing call has been rolled back by the time it
// is returned.
type QuotaExceededError struct {
	MaxSize uint64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("share quota of %d bytes exceeded", e.MaxSize)
}

package store

import (
	"errors"
	"fmt"
)

// ErrRetryExhausted indicates all append retry attempts have been used up.
var ErrRetryExhausted = errors.New("store retry attempts exhausted")

// PersistenceError wraps a backend failure. Transient failures (lock
// contention, rate limiting, server errors) are worth retrying; the rest are
// fatal to the attempt. Either way the caller still holds the composed
// record and can resubmit.
type PersistenceError struct {
	Op        string
	Err       error
	Transient bool
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a PersistenceError marked retryable.
func IsTransient(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr) && perr.Transient
}

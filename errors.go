package promise

import (
	"errors"
	"fmt"
)

// ErrSelfResolution rejects a promise that was resolved with itself, which
// could never settle.
var ErrSelfResolution = errors.New("promise: cannot resolve a promise with itself")

// PanicError wraps a non-error value recovered from a panicking executor or
// handler, carried as the rejection reason.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("promise: callback panicked: %v", e.Value)
}

// asError coerces a recovered panic value into an error.
func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return &PanicError{Value: v}
}

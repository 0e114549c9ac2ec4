package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the record id does not exist in the store.
	ErrNotFound = errors.New("application not found")
	// ErrUnavailable covers transport failures, timeouts and server faults.
	ErrUnavailable = errors.New("record store unavailable")
	// ErrValidation is the kind wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a malformed field. It never reaches the record store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AsValidation extracts a *ValidationError from err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

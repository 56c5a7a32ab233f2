// Package errs defines the error kinds surfaced by workspace provisioning and membership governance.
// Callers inspect them with errors.Is; transports map them with ToStatus or HTTPStatus.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced workspace, user, or hostname does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input and owner-invariant violations.
	ErrValidation = errors.New("validation failed")
	// ErrPermissionDenied is returned when an actor attempts a change outside its authority.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict is returned when the store rejects a write on a uniqueness constraint (e.g. hostname).
	ErrConflict = errors.New("conflict")
	// ErrAllocationExhausted is returned when the hostname allocator runs out of attempts.
	ErrAllocationExhausted = errors.New("hostname allocation exhausted")
)

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

// Validation wraps ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

// PermissionDenied wraps ErrPermissionDenied with a formatted message.
func PermissionDenied(format string, args ...any) error {
	return wrap(ErrPermissionDenied, format, args...)
}

// Conflict wraps ErrConflict with a formatted message.
func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

// AllocationExhausted wraps ErrAllocationExhausted with a formatted message.
func AllocationExhausted(format string, args ...any) error {
	return wrap(ErrAllocationExhausted, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Message returns the part of err after the kind prefix, for user-facing transport messages.
// Errors that are not one of the kinds above return a generic message so internals do not leak.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range []error{ErrNotFound, ErrValidation, ErrPermissionDenied, ErrConflict, ErrAllocationExhausted} {
		if errors.Is(err, kind) {
			return err.Error()
		}
	}
	return "internal error"
}

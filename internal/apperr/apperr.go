// Package apperr defines the error taxonomy shared by the service layer,
// the chat tools, and the HTTP boundary. Callers classify failures with
// errors.Is and translate them into responses or tool-result strings.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced list, category, item, or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: the caller lacks membership or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict: a uniqueness violation; retryable with different input.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: the operation violates an invariant, such as deleting
	// a non-empty category or moving an item across lists.
	ErrInvalidState = errors.New("invalid state")
	// ErrUpstream: the completion provider failed, timed out, or returned
	// data that could not be parsed.
	ErrUpstream = errors.New("upstream failure")
)

// NotFound wraps ErrNotFound with a caller-facing description.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Forbidden wraps ErrForbidden with a caller-facing description.
func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with a caller-facing description.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// InvalidState wraps ErrInvalidState with a caller-facing description.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// Upstream wraps ErrUpstream with a caller-facing description.
func Upstream(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}

// Package fault defines the error taxonomy shared by the service layer.
// Handlers map each sentinel to an HTTP status; services attach context with
// fmt.Errorf("%w: ...") so errors.Is keeps working across layers.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced plan, task or animal does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState indicates the operation violates the state machine.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict indicates an eligibility invariant would be violated.
	ErrConflict = errors.New("conflict")
	// ErrPrecondition indicates deletion or transition blocked by dependents.
	ErrPrecondition = errors.New("precondition failed")
	// ErrPartialFailure indicates a multi-step operation was partially applied.
	ErrPartialFailure = errors.New("partial failure")
	// ErrStorage wraps transient storage-layer failures. A failed fetch is
	// never reported as an empty result.
	ErrStorage = errors.New("storage failure")
)

// Validationf builds a validation error with formatted context.
func Validationf(format string, args ...any) error {
	return wrapf(ErrValidation, format, args...)
}

// NotFoundf builds a not-found error with formatted context.
func NotFoundf(format string, args ...any) error {
	return wrapf(ErrNotFound, format, args...)
}

// InvalidStatef builds a state-machine violation error.
func InvalidStatef(format string, args ...any) error {
	return wrapf(ErrInvalidState, format, args...)
}

// Conflictf builds an eligibility conflict error.
func Conflictf(format string, args ...any) error {
	return wrapf(ErrConflict, format, args...)
}

// Preconditionf builds a precondition error.
func Preconditionf(format string, args ...any) error {
	return wrapf(ErrPrecondition, format, args...)
}

// PartialFailure wraps err as a partially-applied multi-step operation.
func PartialFailure(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPartialFailure, step, err)
}

// Storage wraps a storage round-trip failure.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

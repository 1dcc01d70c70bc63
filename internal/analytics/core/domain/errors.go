package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTeam        = errors.New("invalid team id")
	ErrInvalidRange       = errors.New("invalid time range")
	ErrInvalidUnit        = errors.New("invalid time unit")
	ErrInvalidTimezone    = errors.New("invalid timezone")
	ErrInvalidDimension   = errors.New("invalid dimension")
	ErrBackendExecution   = errors.New("backend execution failure")
	ErrBackendUnavailable = errors.New("backend not configured")
	ErrNormalization      = errors.New("result normalization failure")
)

// BackendError wraps a failure returned by a backend's query executor.
type BackendError struct {
	Backend Backend
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendExecution
}

// NormalizationError reports a raw column value that could not be coerced
// into the typed result.
type NormalizationError struct {
	Column string
	Value  any
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize column %q (%T %v): %s", e.Column, e.Value, e.Value, e.Reason)
}

func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

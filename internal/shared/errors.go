package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrTransport          = fmt.Errorf("transport error")
	ErrValidation         = fmt.Errorf("validation failed")
	ErrNotFound           = fmt.Errorf("not found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAPIRequest         = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Session errors
	ErrBusy      = fmt.Errorf("operation already in progress")
	ErrCancelled = fmt.Errorf("cancelled by user")
)

// Validation codes reported by [ValidationError.Code].
const (
	CodeInvalidName     = "invalid: name"
	CodeInvalidExercise = "invalid: exercise"
	CodeServerRejected  = "invalid: request"
)

// TransportError is returned when the backend cannot be reached or answers
// with a 5xx or an unstructured non-2xx status.
type TransportError struct {
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("%v: status %d", ErrTransport, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %v", ErrTransport, e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ValidationError describes either a local pre-submit failure or a 4xx answer
// with a field-level reason from the backend.
//
// Index is the exercise position for [CodeInvalidExercise] and -1 otherwise.
type ValidationError struct {
	Code       string
	Field      string
	Index      int
	Message    string
	StatusCode int // zero for local validation
}

// NewValidationError builds a local (non-HTTP) validation failure.
func NewValidationError(code, field string, index int, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Index: index, Message: message}
}

func (e *ValidationError) Error() string {
	var prefix string
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("status %d: ", e.StatusCode)
	}
	if e.Field != "" {
		return fmt.Sprintf("%v: %s%s (%s): %s", ErrValidation, prefix, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%v: %s%s: %s", ErrValidation, prefix, e.Code, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is returned when fetching, updating or deleting a missing id.
type NotFoundError struct {
	Resource string
	ID       int
	Detail   string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %d %v: %s", e.Resource, e.ID, ErrNotFound, e.Detail)
	}
	return fmt.Sprintf("%s %d %v", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsRetryable reports whether err is worth offering a retry action for.
//
// Validation failures need user edits first and a missing resource stays missing.
// Everything else may succeed on a second attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrValidation) && !errors.Is(err, ErrNotFound)
}

package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/casebook/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Validation failures are returned as *domain.ValidationError, unwrapped
// 3. Unexpected errors are wrapped in service-specific error types
var (
	// ErrPracticalSupportNotFound indicates that the practical support entry does not exist.
	ErrPracticalSupportNotFound = errors.New("practical support not found")
)

// PracticalSupportServiceError wraps errors from the practical support
// service with context.
type PracticalSupportServiceError struct {
	// Operation is the operation that failed (e.g., "create", "update")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for PracticalSupportServiceError.
func (e *PracticalSupportServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("practical support service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("practical support service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PracticalSupportServiceError) Unwrap() error {
	return e.Err
}

// NewPracticalSupportServiceError creates a new PracticalSupportServiceError.
// It returns known sentinel errors directly without wrapping.
func NewPracticalSupportServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrPracticalSupportNotFound) || errors.Is(err, store.ErrPracticalSupportNotFound) {
		return ErrPracticalSupportNotFound
	}

	return &PracticalSupportServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

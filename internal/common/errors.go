// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Pipeline errors.
	ErrSourceDisabled        = errors.New("source disabled")
	ErrAutoDetectionDisabled = errors.New("auto-detection disabled")
	ErrNoTransactionDetected = errors.New("no transaction detected")
	ErrIncompleteExtraction  = errors.New("incomplete extraction")
	ErrLowConfidence         = errors.New("confidence below threshold")
	ErrDuplicateTransaction  = errors.New("duplicate transaction")

	// Listener errors.
	ErrListenerActive       = errors.New("listener already active")
	ErrPermissionDenied     = errors.New("platform permission denied")
	ErrBridgeUnavailable    = errors.New("native bridge unavailable")
	ErrManagerUninitialized = errors.New("ingestion manager not initialized")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrBridgeUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}

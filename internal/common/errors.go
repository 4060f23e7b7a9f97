package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrUnsupportedFormat: the sniffer found no matching kind. User-facing,
	// non-retryable.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrYieldTooLow: every text-extraction stage produced insufficient text.
	// The document may be a scanned image, unreadable, or encrypted.
	ErrYieldTooLow = errors.New("extracted text below minimum yield")

	// ErrParseFailure: the reasoning service replied but the reply did not
	// parse as the expected schema. Recoverable by retrying or storing the
	// raw reply for manual review.
	ErrParseFailure = errors.New("structured extraction reply did not parse")

	// ErrPersistence: I/O or merge error while upserting one collection.
	ErrPersistence = errors.New("collection persistence failed")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// NewAppError creates a new AppError
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Package errors provides standardized error handling for the order relay
// workflow. Every StandardError carries a Message that is safe to show to the
// end user; the Details field stays server-side.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigMissing    ErrorCode = "CONFIG_MISSING"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUploadFailed     ErrorCode = "UPLOAD_FAILED"
	ErrCodeUploadForbidden  ErrorCode = "UPLOAD_FORBIDDEN"
	ErrCodeUploadAuthFailed ErrorCode = "UPLOAD_AUTH_FAILED"

	ErrCodeDispatchFailed ErrorCode = "DISPATCH_FAILED"

	ErrCodeUnexpected ErrorCode = "UNEXPECTED_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigMissingError reports an absent required configuration value. The
// missing key goes into Details only; the client sees a generic message.
func NewConfigMissingError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigMissing,
		Message:   "The server is not configured to accept orders right now. Please try again later.",
		Details:   fmt.Sprintf("missing configuration: %s", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports a rejected order payload.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Some order fields are missing or invalid. Please review the form and try again.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError reports a media relay failure with a message already
// translated for display.
func NewUploadFailedError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: code == ErrCodeUploadFailed,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchFailedError reports a mail dispatch failure.
func NewDispatchFailedError(message, details string) *StandardError {
	if message == "" {
		message = "The order notification could not be sent. Please try again in a few minutes."
	}
	return &StandardError{
		Code:      ErrCodeDispatchFailed,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedError wraps anything that escaped the known failure paths.
func NewUnexpectedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpected,
		Message:   "Something went wrong while sending your order. Please try again.",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Client Message Mapping
// ==========================

// UserMessage extracts a displayable message from any error. StandardError
// messages pass through verbatim; everything else gets the generic fallback,
// so raw backend payloads and stack traces never reach the client.
func UserMessage(err error) string {
	var stdErr *StandardError
	if errors.As(err, &stdErr) && stdErr.Message != "" {
		return stdErr.Message
	}
	return "Something went wrong while sending your order. Please try again."
}

// CodeOf returns the error code, or UNEXPECTED_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeUnexpected
}

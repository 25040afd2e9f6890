// Package errors provides structured error types for lokiq.
package errors

import (
	"fmt"
)

// ErrorCode identifies specific error conditions
type ErrorCode string

const (
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeInvalidDuration   ErrorCode = "INVALID_DURATION"
	ErrCodeHTTP              ErrorCode = "HTTP_ERROR"
	ErrCodeDecode            ErrorCode = "DECODE_ERROR"
)

// Error is the base error type for lokiq
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Wrap creates a new error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a single detail to an error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.Details[key] = value
	return e
}

// MissingCredential creates an error for a client constructed without any
// resolvable API token.
func MissingCredential(envVar string) *Error {
	return &Error{
		Code:    ErrCodeMissingCredential,
		Message: fmt.Sprintf("no API token provided and %s is not set", envVar),
		Details: map[string]interface{}{
			"env_var": envVar,
		},
	}
}

// InvalidDuration creates an error for a value that is neither a
// nanosecond timestamp nor a recognized duration string.
func InvalidDuration(value string) *Error {
	return &Error{
		Code:    ErrCodeInvalidDuration,
		Message: fmt.Sprintf("invalid duration %q: expected <number><unit> (e.g. 15m, 2h, 7d) or a nanosecond timestamp", value),
		Details: map[string]interface{}{
			"value": value,
		},
	}
}

// HTTPError creates an error for a non-success response from the API.
// The response body is retained so callers can surface the server's
// own error message.
func HTTPError(status int, body string) *Error {
	return &Error{
		Code:    ErrCodeHTTP,
		Message: fmt.Sprintf("loki returned status %d", status),
		Details: map[string]interface{}{
			"status": status,
			"body":   body,
		},
	}
}

// DecodeError creates an error for a response body that does not match
// the documented shape.
func DecodeError(err error) *Error {
	return &Error{
		Code:    ErrCodeDecode,
		Message: "failed to decode loki response",
		Cause:   err,
		Details: make(map[string]interface{}),
	}
}

// Is checks if the error matches the given code
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

// StatusCode returns the HTTP status carried by an HTTP_ERROR, or 0.
func StatusCode(err error) int {
	e, ok := err.(*Error)
	if !ok || e.Code != ErrCodeHTTP {
		return 0
	}
	status, _ := e.Details["status"].(int)
	return status
}

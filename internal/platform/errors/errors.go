// Package errors provides the structured error taxonomy of the persistence layer
// and its mapping to HTTP status codes.
//
// Every message is passed through redact.String when the error is constructed,
// so no error built here can carry a credential-bearing connection string.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pscheid92/watchlist/internal/platform/redact"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeNotConfigured indicates no database is available (HTTP 503)
	TypeNotConfigured ErrorType = "not_configured"
	// TypeValidation indicates a caller-supplied intent violates a contract (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeOperation indicates a failure during a database call (HTTP 500)
	TypeOperation ErrorType = "operation"
	// TypeNotFound indicates a missing resource at the HTTP boundary (HTTP 404)
	TypeNotFound ErrorType = "not_found"
)

// Error represents a structured error with type, message, and context.
// Cause is kept for errors.Is/As diagnostics but never rendered by Error().
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeNotConfigured:
		return http.StatusServiceUnavailable
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeOperation:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    t,
		Message: redact.String(message),
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// NotConfiguredError signals that no database client exists.
func NotConfiguredError(message string) *Error {
	return newError(TypeNotConfigured, message, nil)
}

// ValidationError signals a caller-fixable contract violation.
func ValidationError(message string) *Error {
	return newError(TypeValidation, message, nil)
}

// NotFoundError is used by the HTTP surface; repositories report absence instead.
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

// OperationError wraps a lower-level failure with the action that was being
// performed, e.g. "update stock '42'".
func OperationError(action string, cause error) *Error {
	message := fmt.Sprintf("database error while '%s'", action)
	if cause != nil && cause.Error() != "" {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}
	return newError(TypeOperation, message, cause)
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   redact.String(e.Message),
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err already is (or wraps) an *Error, it is returned with its message
// re-sanitized. Anything else becomes an operation error with a generic message.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		structuredErr.Message = redact.String(structuredErr.Message)
		return structuredErr
	}

	return newError(TypeOperation, "internal server error", err)
}

func isType(err error, t ErrorType) bool {
	var structuredErr *Error
	return errors.As(err, &structuredErr) && structuredErr.Type == t
}

func IsNotConfigured(err error) bool { return isType(err, TypeNotConfigured) }
func IsValidation(err error) bool    { return isType(err, TypeValidation) }
func IsOperation(err error) bool     { return isType(err, TypeOperation) }

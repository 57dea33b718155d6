package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeConfiguration     ErrorType = "configuration"
	ErrorTypeRequest           ErrorType = "request"
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
	ErrorTypeSigning           ErrorType = "signing"
	ErrorTypeTransport         ErrorType = "transport"
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeInternal          ErrorType = "internal"
)

// Error is the base error type for all application errors.
//
// StatusCode and Body are only populated for request failures, where the
// server answered with a non-200 status.
type Error struct {
	Type       ErrorType
	Message    string
	Cause      error
	Context    map[string]any
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new Error
func New(errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   err,
		Context: make(map[string]any),
	}
}

// Configuration creates a configuration error
func Configuration(message string) *Error {
	return New(ErrorTypeConfiguration, message)
}

// MissingVariables reports every required environment variable that was unset or empty.
func MissingVariables(names []string) *Error {
	return Configuration(fmt.Sprintf("missing required environment variable(s): %s", strings.Join(names, ", "))).
		WithContext("missing", names)
}

// RequestFailure creates an error for a non-200 response, keeping the raw body for diagnostics.
func RequestFailure(statusCode int, body string) *Error {
	e := New(ErrorTypeRequest, fmt.Sprintf("SuiteQL request failed (HTTP %d): %s", statusCode, body))
	e.StatusCode = statusCode
	e.Body = body
	return e
}

// MalformedResponse creates an error for a response body that cannot be read as a query result
func MalformedResponse(message string, cause error) *Error {
	if cause == nil {
		return New(ErrorTypeMalformedResponse, message)
	}
	return Wrap(cause, ErrorTypeMalformedResponse, message)
}

// Signing creates a signing error
func Signing(message string) *Error {
	return New(ErrorTypeSigning, message)
}

// Transport creates an error for a request that never produced a response
func Transport(err error) *Error {
	return Wrap(err, ErrorTypeTransport, "SuiteQL request could not be completed")
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(ErrorTypeValidation, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(ErrorTypeInternal, message)
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err's chain holds an *Error of the given type.
func IsType(err error, errorType ErrorType) bool {
	e, ok := As(err)
	return ok && e.Type == errorType
}

// TypeOf returns the category of err, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	if e, ok := As(err); ok {
		return e.Type
	}
	return ErrorTypeInternal
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Session errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAuthInProgress   = errors.New("an authentication request is already in progress")
	ErrStaleResponse    = errors.New("session changed while the request was in flight")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// APIError is a failed round trip to the backend: a non-2xx response, or a
// transport failure (Status 0).
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
	Err     error
}

// Error implements error interface
func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap implements errors.Unwrap interface
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the request never got an HTTP response.
func (e *APIError) IsTransport() bool {
	return e.Status == 0
}

// IsUnauthorized reports a 401/403 answer from the backend.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// AsAPIError extracts an *APIError from the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// BackendMessage returns the backend-provided message carried by err, or
// fallback when err is not an error response or the backend sent no body.
func BackendMessage(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Status >= http.StatusBadRequest && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

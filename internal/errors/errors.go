// Package errors provides custom error types for the ChatULL client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNoSession       = errors.New("no session token")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoAnswer        = errors.New("no answer in response")
	ErrUnknownSubject  = errors.New("unknown subject")
)

// SessionError represents a missing or unusable session token
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string {
	if e.Message == "" {
		return "session token missing: run 'chatull set-api-key'"
	}
	return fmt.Sprintf("session error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *SessionError) Is(target error) bool {
	if target == ErrNoSession {
		return true
	}
	_, ok := target.(*SessionError)
	return ok
}

// NewSessionError creates a new SessionError
func NewSessionError(message string) *SessionError {
	return &SessionError{Message: message}
}

// APIError represents a non-2xx answer from the service
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// HTTPStatusCode exposes the status for callers that only know the interface.
func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

// WithBody attaches a (truncated) response body for diagnostics
func (e *APIError) WithBody(body string) *APIError {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	e.Body = body
	return e
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NetworkError wraps a transport failure (DNS, TLS, connection reset, ...)
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %q: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// IsNetworkError reports whether err is (or wraps) a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err is (or wraps) a ParseError
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsSessionError reports whether err signals a missing session token
func IsSessionError(err error) bool {
	return errors.Is(err, ErrNoSession)
}

// GetHTTPStatus extracts the HTTP status from an APIError chain, 0 if none
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

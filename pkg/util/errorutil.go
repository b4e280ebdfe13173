package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the gateway.
const (
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeAuthorizationDenied  = "AUTHORIZATION_DENIED"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeNotFound             = "NOT_FOUND"
	CodeUpstreamUnavailable  = "UPSTREAM_UNAVAILABLE"
	CodeSessionSuperseded    = "SESSION_SUPERSEDED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewAuthenticationFailed covers bad credentials, invalid or expired
// invitation tokens, and 401 responses from the platform backend.
func NewAuthenticationFailed(message string, details map[string]any) error {
	return NewDomainError(CodeAuthenticationFailed, message, http.StatusUnauthorized, details)
}

// NewAuthorizationDenied covers role hierarchy checks failing before any
// network call is made.
func NewAuthorizationDenied(message string) error {
	return NewDomainError(CodeAuthorizationDenied, message, http.StatusForbidden, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUpstreamError wraps transport failures and 5xx responses from the
// platform backend. The gateway surfaces these verbatim and never retries.
func NewUpstreamError(message string, err error, details map[string]any) error {
	return &DomainError{
		Code:       CodeUpstreamUnavailable,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Details:    details,
		Err:        err,
	}
}

// NewSessionSuperseded signals a sign-in whose result was discarded because
// the session was ended while it was in flight.
func NewSessionSuperseded() error {
	return NewDomainError(CodeSessionSuperseded, "session ended during sign-in", http.StatusConflict, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf extracts the error code, or empty string for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

// IsAuthenticationFailed reports whether err is a session-clearing auth failure.
func IsAuthenticationFailed(err error) bool {
	return CodeOf(err) == CodeAuthenticationFailed
}

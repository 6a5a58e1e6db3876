// Package domainerrors defines the error codes domain services speak.
//
// The six upstream kinds (bad_request, unauthorized, forbidden, not_found,
// upstream_error, service_unavailable) map 1:1 onto the provider failure
// taxonomy: callers react differently to each (retry-worthy vs not,
// re-auth-worthy vs not). Local codes cover input validation and internal
// faults of this service itself.
package domainerrors

import (
	"errors"
	"net/http"
)

type Code string

const (
	// Upstream taxonomy. Every provider failure is classified into exactly
	// one of these; unclassifiable failures default to CodeServiceUnavailable.
	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeUpstreamError      Code = "upstream_error"
	CodeServiceUnavailable Code = "service_unavailable"

	// Local codes.
	CodeValidation Code = "validation_error"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal_error"
)

// Error carries a stable machine code plus a human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a domain error that preserves the underlying cause for
// errors.Is/As chains and diagnostics.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code onto the HTTP status handlers return.
// Upstream 500s surface as 502 from this service: the fault is the
// provider's, not ours.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUpstreamError:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

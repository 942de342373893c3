// Package apperrors defines the closed error taxonomy shared by services
// and handlers. Services return *Error values; the HTTP layer translates
// them to a status code exactly once.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for HTTP translation.
type Kind int

const (
	KindValidation Kind = iota // missing or malformed input
	KindAuth                   // missing, malformed, expired or revoked credential
	KindNotFound               // no such user, channel or record
	KindConflict               // duplicate username or email
	KindUpstream               // external blob store unavailable
	KindInternal               // unexpected failure
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, never shown to clients
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, cause ...error) *Error {
	e := &Error{Kind: kind, Message: message}
	if len(cause) > 0 {
		e.Err = cause[0]
	}
	return e
}

func Validation(message string) *Error { return newError(KindValidation, message) }
func Auth(message string) *Error       { return newError(KindAuth, message) }
func NotFound(message string) *Error   { return newError(KindNotFound, message) }
func Conflict(message string) *Error   { return newError(KindConflict, message) }

// Upstream wraps a blob-store failure.
func Upstream(message string, cause error) *Error {
	return newError(KindUpstream, message, cause)
}

// Internal wraps an unexpected failure. The cause is logged server-side
// only; clients see the generic message.
func Internal(cause error) *Error {
	return newError(KindInternal, "internal server error", cause)
}

// From returns err as *Error, wrapping unknown errors as KindInternal so
// no raw error ever reaches the HTTP layer untyped.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// HTTPStatus maps an error kind to its response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

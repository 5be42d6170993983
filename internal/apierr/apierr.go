// Package apierr defines the error taxonomy for remote API failures.
//
// Every failure surfaced by the gateway or the backend client is one of
// these codes. There is no retry tier: each error is reported once and the
// caller decides whether to correct input or give up.
package apierr

import (
	"errors"
	"fmt"
)

// Code identifies a failure class.
type Code string

const (
	// CodeValidation is a client-detected input error; nothing was sent.
	CodeValidation Code = "VALIDATION"

	// CodeRejected is a 4xx rejection (other than 401/404) carrying the
	// server's message verbatim when one was supplied.
	CodeRejected Code = "REQUEST_REJECTED"

	// CodeSessionExpired is a 401; the stored credential has been wiped.
	CodeSessionExpired Code = "SESSION_EXPIRED"

	// CodeUnreachable means no response was received at all.
	CodeUnreachable Code = "UNREACHABLE"

	// CodeNotFound is a 404; benign on repeated deletes.
	CodeNotFound Code = "NOT_FOUND"

	// CodeUnexpected is any other non-2xx status.
	CodeUnexpected Code = "UNEXPECTED_STATUS"
)

// UnreachableMessage is the fixed text for transport-level failures.
const UnreachableMessage = "unable to reach the server; the backend may be down or unreachable"

// SessionExpiredMessage is the fixed text for 401 responses.
const SessionExpiredMessage = "session expired or invalid (run: taskchat login)"

// Error is a classified API error.
type Error struct {
	Code    Code
	Status  int // HTTP status when one was received, else 0
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a client-side validation error.
func NewValidation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewRejected creates a request-rejected error from a 4xx response.
func NewRejected(status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("request rejected by server (status %d)", status)
	}
	return &Error{Code: CodeRejected, Status: status, Message: msg}
}

// NewSessionExpired creates a fatal-session error for a 401 response.
func NewSessionExpired() *Error {
	return &Error{Code: CodeSessionExpired, Status: 401, Message: SessionExpiredMessage}
}

// NewUnreachable creates a transport-unreachable error.
func NewUnreachable() *Error {
	return &Error{Code: CodeUnreachable, Message: UnreachableMessage}
}

// NewNotFound creates a 404 error for the named resource.
func NewNotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Status: 404, Message: fmt.Sprintf("%s not found", what)}
}

// NewUnexpected creates an error for any other non-2xx status.
func NewUnexpected(status int, body string) *Error {
	msg := fmt.Sprintf("unexpected status %d", status)
	if body != "" {
		msg = fmt.Sprintf("unexpected status %d: %s", status, body)
	}
	return &Error{Code: CodeUnexpected, Status: status, Message: msg}
}

// Is reports whether err is an apierr.Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

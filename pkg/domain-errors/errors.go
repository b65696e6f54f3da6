// Package dErrors provides coded domain errors for the registry.
//
// Services return these so transports can map failures to wire responses
// without string matching. Stores and infrastructure return sentinel errors
// (pkg/platform/sentinel); services translate those facts into codes here.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. Codes are stable API surface: handlers map
// them to HTTP statuses and clients branch on the serialized form.
type Code string

const (
	// Generic codes.
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_error"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal_error"

	// CodeInvariantViolation marks a broken aggregate invariant. Surfacing one
	// to a client means a constructor or transition guard was bypassed.
	CodeInvariantViolation Code = "invariant_violation"

	// Lifecycle codes. Each corresponds to a precondition of the credit state
	// machine and is returned with no partial state change.
	CodeInvalidAmount       Code = "invalid_amount"
	CodeInsufficientBalance Code = "insufficient_balance"
	CodeNotValidated        Code = "credit_not_validated"
	CodeAlreadyValidated    Code = "already_validated"
	CodeAlreadyRetired      Code = "credit_already_retired"
	CodeNotOwner            Code = "not_owner"
)

// Error is a domain error with a machine-readable code and human-readable
// message. It may wrap an underlying cause for logging; the cause is never
// serialized to clients.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause remains
// reachable via errors.Is/As for logging and tests.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message of err, or empty when err is not
// a domain error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

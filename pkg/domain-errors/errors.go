// Package dErrors provides coded domain errors shared by every service.
//
// Services wrap ledger and store failures into a coded error at the point
// where an infrastructure fact becomes a domain outcome. The transport
// layer maps codes onto HTTP statuses and never inspects raw errors.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeUnauthorized marks a caller that lacks the required capability:
	// wrong platform authority, or an issuer missing from the allow-list.
	CodeUnauthorized Code = "unauthorized"
	// CodeCapacityExceeded marks an operation that would overrun a bounded
	// resource: share supply, issuer-list capacity.
	CodeCapacityExceeded Code = "capacity_exceeded"
	// CodeInvalidState marks an operation invoked on a record whose state
	// forbids it, such as a yield claim with a zero share balance.
	CodeInvalidState Code = "invalid_state"
	// CodeDuplicate marks creation attempted at an occupied derived address.
	CodeDuplicate Code = "duplicate_record"
	// CodeArithmetic marks counter or payout arithmetic that would overflow.
	CodeArithmetic Code = "arithmetic_overflow"

	CodeValidation         Code = "validation_error"
	CodeInvariantViolation Code = "invariant_violation"
	CodeNotFound           Code = "not_found"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error, optionally wrapping a cause.
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

// New builds a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message, preserving the chain.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries no code at all.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

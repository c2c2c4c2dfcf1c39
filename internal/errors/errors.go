// Package errors defines the error taxonomy shared by the use case layer.
// Delivery handlers map these onto HTTP status codes; everything else is
// treated as an internal error.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError signals a malformed or out-of-range payload (400)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NotFoundError signals a missing entity or dangling reference (404)
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// ConflictError signals a duplicate natural key, a stale version or a
// tampered derived field (409)
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// InvariantViolation signals corrupted derived state: stock driven negative,
// a counter adjustment against a missing parent. It always aborts the
// enclosing transaction and surfaces as an internal error (500), never a
// silent clamp.
type InvariantViolation struct {
	Message string
	Cause   error
}

func (e *InvariantViolation) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InvariantViolation) Unwrap() error {
	return e.Cause
}

func NewInvariantViolation(message string, cause error) *InvariantViolation {
	return &InvariantViolation{Message: message, Cause: cause}
}

func IsInvariantViolation(err error) (*InvariantViolation, bool) {
	var iv *InvariantViolation
	if stderrors.As(err, &iv) {
		return iv, true
	}
	return nil, false
}

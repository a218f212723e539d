package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed operation for the transport layer.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindUnavailable ErrorKind = "unavailable"
)

// OperationError is returned by every service operation that fails for a
// reason the caller can act on. Err carries the sentinel or the underlying
// database error and is never shown to clients.
type OperationError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or "" for errors that are not OperationErrors.
func KindOf(err error) ErrorKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return ""
}

func validationError(field, message string) *OperationError {
	return &OperationError{Kind: KindValidation, Field: field, Message: message, Err: ErrValidation}
}

func notFoundError(sentinel error, message string) *OperationError {
	return &OperationError{Kind: KindNotFound, Message: message, Err: sentinel}
}

func conflictError(sentinel error, message string) *OperationError {
	return &OperationError{Kind: KindConflict, Message: message, Err: sentinel}
}

func unavailableError(message string, err error) *OperationError {
	return &OperationError{Kind: KindUnavailable, Message: message, Err: err}
}

var ErrValidation = errors.New("validation failed")

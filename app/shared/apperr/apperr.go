// Package apperr defines the failure taxonomy shared by every engine operation.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so transports can react to it without string matching.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindPrecondition
	KindConflict
	KindState
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// Retryable reports whether a failure of this kind may succeed when attempted again unchanged.
func (k Kind) Retryable() bool {
	return k == KindTransaction
}

// Error is the error type returned by application services.
type Error struct {
	Kind   Kind
	Op     string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind when the target carries no detail,
// so callers can write errors.Is(err, apperr.ErrConflict).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Reason == "" && t.Err == nil
}

// Kind sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrState        = &Error{Kind: KindState}
	ErrTransaction  = &Error{Kind: KindTransaction}
)

func newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Reason: fmt.Sprintf(format, args...)}
}

func Validationf(op, format string, args ...any) *Error {
	return newf(KindValidation, op, format, args...)
}

func NotFoundf(op, format string, args ...any) *Error {
	return newf(KindNotFound, op, format, args...)
}

func Preconditionf(op, format string, args ...any) *Error {
	return newf(KindPrecondition, op, format, args...)
}

func Conflictf(op, format string, args ...any) *Error {
	return newf(KindConflict, op, format, args...)
}

func Statef(op, format string, args ...any) *Error {
	return newf(KindState, op, format, args...)
}

// Transaction wraps a storage or infrastructure failure. Errors that already
// carry a kind are returned unchanged.
func Transaction(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindTransaction, Op: op, Reason: "storage operation failed", Err: err}
}

// KindOf returns the kind carried by err. Errors without a kind are treated as
// infrastructure failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransaction
}

// Reason returns the human readable part of err without the operation prefix.
func Reason(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Reason != "" {
		return appErr.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPrecondition:
		return http.StatusPreconditionFailed
	case KindConflict, KindState:
		return http.StatusConflict
	case KindTransaction:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

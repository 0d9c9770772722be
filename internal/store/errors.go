package store

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies storage errors so callers (and the retry wrapper) can react
// without string matching.
type Kind int

const (
	// KindNotFound covers both absent rows and rows scoped out of the
	// caller's view; the two are intentionally indistinguishable.
	KindNotFound Kind = iota + 1
	// KindPermission means the acting role lacks the required capability.
	KindPermission
	// KindValidation means malformed input rejected before reaching storage.
	KindValidation
	// KindTransient covers connection loss, timeouts and other retryable
	// backend failures.
	KindTransient
	// KindFatal covers authentication/credential failures on the backend;
	// never retried.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission_denied"
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is the storage error type. All errors leaving the store package are
// either *Error or a raw backend error that the retry wrapper already gave up
// on.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so errors.Is(err, ErrNotFound) works regardless of
// the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is checks.
var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrPermissionDenied = &Error{Kind: KindPermission, Message: "permission denied"}
	ErrValidation       = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrTransient        = &Error{Kind: KindTransient, Message: "transient backend error"}
	ErrFatal            = &Error{Kind: KindFatal, Message: "fatal backend error"}
)

// Constructors

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func PermissionDenied(msg string) *Error {
	return &Error{Kind: KindPermission, Message: msg}
}

func Invalid(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Message: msg, Err: err}
}

func Fatal(msg string, err error) *Error {
	return &Error{Kind: KindFatal, Message: msg, Err: err}
}

// Convenience predicates

func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }
func IsValidation(err error) bool       { return errors.Is(err, ErrValidation) }

// retryable reports whether the retry wrapper may re-attempt after err.
// Permission, validation, not-found and fatal errors propagate immediately.
// Untyped errors are inspected for authentication/permission wording; all
// other failures (connection loss included) are treated as transient.
func retryable(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		switch se.Kind {
		case KindPermission, KindValidation, KindNotFound, KindFatal:
			return false
		}
		return true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "authentication") || strings.Contains(msg, "permission") {
		return false
	}
	return true
}

package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error surfaced by the core.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindInvalidState    Kind = "INVALID_STATE"
	KindStorage         Kind = "STORAGE_ERROR"
)

// Reason refines a storage error.
type Reason string

const (
	ReasonFailure   Reason = "failure"
	ReasonCancelled Reason = "cancelled"
	ReasonTimeout   Reason = "timeout"
)

// Error is the error type returned by domain, repository and service code.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Reason != "" && e.Reason != ReasonFailure {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewInvalidArgument reports bad caller input.
func NewInvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidState reports an operation attempted on an incomplete entity.
func NewInvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// NewStorageError wraps a backend fault.
func NewStorageError(reason Reason, message string, err error) *Error {
	if reason == "" {
		reason = ReasonFailure
	}
	return &Error{Kind: KindStorage, Reason: reason, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// ReasonOf returns the storage reason of err, or "" if err is not a storage error.
func ReasonOf(err error) Reason {
	var de *Error
	if errors.As(err, &de) && de.Kind == KindStorage {
		return de.Reason
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

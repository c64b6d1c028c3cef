// Package apperror classifies failures so the HTTP layer can tell callers
// whether a request may succeed later (NotReady, Busy) or never will
// (Validation, Failed).
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInternal    Kind = "internal"
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindNotReady    Kind = "not_ready"
	KindSessionFull Kind = "session_full"
	KindFailed      Kind = "failed"
	KindUpstream    Kind = "upstream"
	KindBusy        Kind = "busy"
	KindUnavailable Kind = "unavailable"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
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

// Retryable reports whether the same request may succeed later without changes.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNotReady, KindBusy, KindUpstream, KindUnavailable:
		return true
	}
	return false
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func NotReady(format string, args ...any) *Error {
	return New(KindNotReady, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func SessionFull(format string, args ...any) *Error {
	return New(KindSessionFull, format, args...)
}

func Failed(format string, args ...any) *Error {
	return New(KindFailed, format, args...)
}

func Upstream(err error, format string, args ...any) *Error {
	return Wrap(KindUpstream, err, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

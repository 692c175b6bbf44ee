package apperror

import (
	"errors"
	"fmt"
)

// Kind groups errors by how a caller should react to them.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindState           Kind = "state"
	KindAuthorization   Kind = "authorization"
	KindUnauthenticated Kind = "unauthenticated"
	KindConfiguration   Kind = "configuration"
	KindInternal        Kind = "internal"
)

// Error is a business error with a stable code. Two errors are equal
// under errors.Is when their codes match, so a sentinel can be
// re-messaged with Withf and still be matched.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy of e carrying a more specific message.
func (e *Error) Withf(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// Validation builds a validation error from validator field messages.
func Validation(fields map[string]string, summary string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    ErrInvalidInput.Code,
		Message: "validation failed: " + summary,
		Fields:  fields,
	}
}

// Internal wraps an infrastructure failure. The wrapped error is kept
// for logs; callers only see the operation name.
func Internal(err error, operation string) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "INTERNAL",
		Message: operation + " failed",
		Err:     err,
	}
}

// As extracts the *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// Package errors provides the gateway's structured error type. Every expected
// failure is expressed as an *Error carrying a Kind from a closed taxonomy;
// each Kind maps to exactly one JSON-RPC wire code. Errors flow through Result
// values rather than panics; panics are reserved for programming faults and
// are recovered at the registry and processor boundaries.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the gateway's structured error. The zero value is not usable;
// construct errors through New, Wrap, or the kind-specific factories.
type Error struct {
	kind    Kind
	message string
	detail  string
	data    interface{}
	cause   error
}

// New creates an Error of the given kind with a human-readable message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that records cause for error-chain traversal.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("%s: %s", e.message, e.detail)
	}
	return e.message
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Code returns the wire error code determined by the kind.
func (e *Error) Code() int { return e.kind.Code() }

// Message returns the human-readable message intended for the wire.
func (e *Error) Message() string { return e.message }

// Detail returns additional diagnostic detail. Detail is for logs, not the
// wire; the processor never copies it into a response.
func (e *Error) Detail() string { return e.detail }

// Data returns structured data attached to the error, if any. Data is sent on
// the wire in the error object's data field.
func (e *Error) Data() interface{} { return e.data }

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

// WithDetail returns a copy of the error with additional diagnostic detail.
func (e *Error) WithDetail(detail string) *Error {
	clone := *e
	if clone.detail != "" {
		clone.detail = fmt.Sprintf("%s; %s", clone.detail, detail)
	} else {
		clone.detail = detail
	}
	return &clone
}

// WithDetailf returns a copy of the error with formatted diagnostic detail.
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// WithData returns a copy of the error carrying structured data.
func (e *Error) WithData(data interface{}) *Error {
	clone := *e
	clone.data = data
	return &clone
}

// As extracts an *Error from anywhere in err's chain.
func As(err error) (*Error, bool) {
	var gwErr *Error
	if stderrors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if gwErr, ok := As(err); ok {
		return gwErr.kind == kind
	}
	return false
}

// Package result provides the two-variant outcome value used as the uniform
// return shape for handlers and service calls. A Result is either Ok with a
// payload or Err with a structured *errors.Error; it never carries both. The
// producing side never panics across a boundary for an expected failure, and
// the consuming side inspects the variant explicitly.
package result

import "github.com/contextworks/mcp-gateway/pkg/errors"

// Result holds either a success value or a structured error.
type Result[T any] struct {
	value T
	err   *errors.Error
}

// Ok creates a success Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err creates a failure Result carrying err.
func Err[T any](err *errors.Error) Result[T] {
	return Result[T]{err: err}
}

// Errf creates a failure Result with a freshly constructed error.
func Errf[T any](kind errors.Kind, format string, args ...interface{}) Result[T] {
	return Result[T]{err: errors.Newf(kind, format, args...)}
}

// IsOk reports whether the Result is the success variant.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether the Result is the failure variant.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Value returns the success payload. It is the zero value for failure Results.
func (r Result[T]) Value() T { return r.value }

// Err returns the structured error, or nil for success Results.
func (r Result[T]) Err() *errors.Error { return r.err }

// Get unpacks the Result into Go's conventional (value, error) pair.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Map transforms the payload of a success Result; failure Results pass
// through unchanged with the error re-typed for the new payload.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}

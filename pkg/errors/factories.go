package errors

import "fmt"

// FieldViolation describes one schema validation failure. A ValidationError
// carries the complete list of violations for the offending payload.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Violation codes used by the schema validator.
const (
	ViolationRequired  = "required"
	ViolationType      = "type"
	ViolationMinLength = "min_length"
	ViolationMaxLength = "max_length"
	ViolationEnum      = "enum"
)

// ValidationErrorData is the structured payload of a ValidationError.
type ValidationErrorData struct {
	Violations []FieldViolation `json:"violations"`
}

// ParseError creates an error for undecodable input.
func ParseError(cause error) *Error {
	return Wrap(cause, KindParse, "failed to parse message")
}

// InvalidRequest creates an error for a malformed request envelope.
func InvalidRequest(reason string) *Error {
	return Newf(KindInvalidRequest, "invalid request: %s", reason)
}

// MethodNotFound creates an error for an unknown protocol method.
func MethodNotFound(method string) *Error {
	return Newf(KindMethodNotFound, "method not found: %s", method)
}

// InvalidParams creates an error for malformed method parameters.
func InvalidParams(method string, cause error) *Error {
	return Wrap(cause, KindInvalidParams, fmt.Sprintf("invalid params for %s", method))
}

// Internal creates an error for an unexpected runtime fault. The wire message
// is deliberately generic; operation and cause stay in detail for the logs.
func Internal(operation string, cause error) *Error {
	err := Wrap(cause, KindInternal, "internal error")
	if cause != nil {
		return err.WithDetailf("%s: %v", operation, cause)
	}
	return err.WithDetail(operation)
}

// ResourceNotFound creates an error for an absent resource.
func ResourceNotFound(uri string) *Error {
	return Newf(KindResourceNotFound, "resource not found: %s", uri)
}

// ToolNotFound creates an error for an absent tool.
func ToolNotFound(name string) *Error {
	return Newf(KindToolNotFound, "tool not found: %s", name)
}

// PermissionDenied creates an error for a disallowed operation.
func PermissionDenied(operation, reason string) *Error {
	return Newf(KindPermissionDenied, "permission denied for %s: %s", operation, reason)
}

// RateLimited creates an error for a throttled request.
func RateLimited(method string) *Error {
	return Newf(KindRateLimited, "rate limit exceeded for %s", method)
}

// ValidationFailed creates an error carrying every field-level violation.
func ValidationFailed(violations []FieldViolation) *Error {
	return New(KindValidation, "argument validation failed").
		WithData(&ValidationErrorData{Violations: violations})
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type for the library.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// RejectedLocked creates a new AppError for a mutation attempt on a locked
// segment. The offending time range is recorded in the details.
func RejectedLocked(start, end float64) *AppError {
	return &AppError{
		Code:    ErrCodeRejectedLocked,
		Message: "segment is locked and can no longer be revised",
		Details: map[string]any{"start": start, "end": end},
	}
}

// InvalidInput creates a new AppError for an event that failed validation.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// InvalidConfig creates a new AppError for invalid construction-time
// configuration. Fatal at startup only; never produced on the ingest path.
func InvalidConfig(field, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid configuration: %s", reason),
		Details: map[string]any{"field": field},
	}
}

// NotFound creates a new AppError for a session that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("the requested %s was not found", resource),
		Details: details,
	}
}

// AlreadyExists creates a new AppError for a session that already exists.
func AlreadyExists(resource, id string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("a %s with this ID already exists", resource),
		Details: map[string]any{"resource": resource, "id": id},
	}
}

// --- Code Predicates ---

// CodeOf extracts the ErrorCode from err, or "" if err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsRejected reports whether err is a rejected mutation on a locked segment.
func IsRejected(err error) bool { return CodeOf(err) == ErrCodeRejectedLocked }

// IsInvalidInput reports whether err is a boundary validation failure.
func IsInvalidInput(err error) bool { return CodeOf(err) == ErrCodeInvalidInput }

// IsInvalidConfig reports whether err is a configuration error.
func IsInvalidConfig(err error) bool { return CodeOf(err) == ErrCodeInvalidConfig }

// IsNotFound reports whether err is a missing-session error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

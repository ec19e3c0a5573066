package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Reconciliation errors
const (
	// ErrCodeRejectedLocked indicates a mutation attempt on a locked segment.
	// This is an expected, reportable outcome of ingestion, never a fault.
	ErrCodeRejectedLocked ErrorCode = "REJECTED_LOCKED"
	// ErrCodeInvalidInput indicates an event failed boundary validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates invalid construction-time configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Registry errors
const (
	// ErrCodeNotFound indicates the requested session was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates a session with the given ID already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Package errors provides unified error handling for transcriptkit.
//
// Every error produced by this library is an *AppError carrying a
// machine-readable ErrorCode. Callers branch on codes, not messages:
//
//	_, err := acc.Ingest(ev)
//	if errors.IsRejected(err) {
//	    // expected: a confirmed segment can no longer be revised
//	}
//
// The taxonomy is small by design. REJECTED_LOCKED is a normal,
// reportable reconciliation outcome. INVALID_INPUT rejects malformed
// events before any mutation. INVALID_CONFIG is fatal at construction
// only. NOT_FOUND and ALREADY_EXISTS are session registry errors.
package errors

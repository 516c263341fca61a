package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while executing or replaying a run.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run, when there is one.
	RunID string

	// Details carries extra context for diagnostics.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidRequest: n or block count out of range.
	ErrCodeInvalidRequest RuntimeErrorCode = "INVALID_REQUEST"

	// ErrCodeQuotaExceeded: the request enumerates more permutations than allowed.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeResultMismatch: a result differs from the expected or stored one.
	ErrCodeResultMismatch RuntimeErrorCode = "RESULT_MISMATCH"

	// ErrCodeRunNotFound: the requested run is not in the store.
	ErrCodeRunNotFound RuntimeErrorCode = "RUN_NOT_FOUND"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RunID != "" {
		msg += fmt.Sprintf(" (run=%s)", e.RunID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the cause so callers can match kernel sentinels.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is a RuntimeError with the given code.
func HasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func newInvalidRequest(err error) *RuntimeError {
	return &RuntimeError{Code: ErrCodeInvalidRequest, Message: "invalid run request", Err: err}
}

func newQuotaError(n int, perms, limit uint64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("n=%d enumerates %d permutations, limit is %d", n, perms, limit),
		Details: map[string]string{
			"permutations": fmt.Sprintf("%d", perms),
			"limit":        fmt.Sprintf("%d", limit),
		},
	}
}

// NewMismatchError reports a result that differs from what was expected.
func NewMismatchError(runID, what string, got, want any) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeResultMismatch,
		Message: fmt.Sprintf("%s: got %v, want %v", what, got, want),
		RunID:   runID,
		Details: map[string]string{
			"field": what,
			"got":   fmt.Sprint(got),
			"want":  fmt.Sprint(want),
		},
	}
}

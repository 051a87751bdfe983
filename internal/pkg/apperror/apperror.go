// Package apperror holds the error categories every domain error wraps.
// Callers classify failures with errors.Is against these sentinels.
package apperror

import "errors"

var (
	// ErrValidation marks malformed or missing input. Not retryable.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks an invalid state transition. Callers refresh state before retrying.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientBalance marks a balance check that failed at completion time.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrConfiguration marks missing payroll configuration. Recovered locally with defaults.
	ErrConfiguration = errors.New("configuration error")

	// ErrPersistence marks a database or transaction failure. The unit of work is rolled back.
	ErrPersistence = errors.New("persistence error")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Code returns the reason code reported to API clients for err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

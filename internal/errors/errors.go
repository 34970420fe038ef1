package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Tend error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrNameExists     ErrorCode = "NAME_EXISTS"     // 409
	ErrRateLimited    ErrorCode = "RATE_LIMITED"    // 429
	ErrPersistence    ErrorCode = "PERSISTENCE"     // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// TendError represents a structured error with code, status, and details.
type TendError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *TendError {
	return &TendError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a record that cannot be found.
func NewNotFound(kind, identifier string) *TendError {
	return &TendError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewNameExists creates a 409 error for name collisions (life areas).
func NewNameExists(kind, name string) *TendError {
	return &TendError{
		Code:    ErrNameExists,
		Status:  409,
		Message: fmt.Sprintf("%s with name %q already exists", kind, name),
		Details: map[string]any{"kind": kind, "name": name},
	}
}

// NewRateLimited creates a 429 error for an exhausted request window.
func NewRateLimited(retryAfterSeconds int) *TendError {
	return &TendError{
		Code:    ErrRateLimited,
		Status:  429,
		Message: "too many requests, try again later",
		Details: map[string]any{"retry_after_seconds": retryAfterSeconds},
	}
}

// NewPersistence creates a 500 error for a storage write failure.
// The failing operation is recorded so the caller can surface which
// commit broke without aborting the rest of the session.
func NewPersistence(op string, err error) *TendError {
	details := map[string]any{"operation": op}
	if err != nil {
		details["cause"] = err.Error()
	}
	return &TendError{
		Code:    ErrPersistence,
		Status:  500,
		Message: fmt.Sprintf("storage operation failed: %s", op),
		Details: details,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message is generic; the original error goes into Details for logging.
func NewInternal(err error) *TendError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &TendError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// AsTendError unwraps err to a *TendError when possible.
func AsTendError(err error) (*TendError, bool) {
	var tErr *TendError
	if stderrors.As(err, &tErr) {
		return tErr, true
	}
	return nil, false
}

// Is checks if an error is (or wraps) a TendError with the given code.
func Is(err error, code ErrorCode) bool {
	var tErr *TendError
	if stderrors.As(err, &tErr) {
		return tErr.Code == code
	}
	return false
}

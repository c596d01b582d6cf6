// Package apperror defines the application's error taxonomy.
//
// Every layer below the handlers speaks this vocabulary: the repository
// translates raw storage failures into it, the services pass it through,
// and the handlers map it to HTTP behaviour. Handlers never see a raw
// driver error and never show one to the user.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers branch with errors.Is, which walks the chain
// through AppError.Unwrap.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrAccessDenied   = errors.New("access denied")
	ErrNotImplemented = errors.New("not implemented")
)

// AppError carries a sentinel for programmatic branching plus a
// human-readable message that is safe to show to the end user.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // user-safe, rendered as-is in pages
	Field   string // optional: form field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidInput reports caller-supplied data that fails a structural,
// length, range, or format rule.
func InvalidInput(field, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidInput,
		Message: message,
		Field:   field,
	}
}

// NotFound reports a referenced entity that does not exist.
// resource is capitalised for display, e.g. "Movie" → "Movie not found."
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found.", resource),
	}
}

// Conflict reports a uniqueness or integrity violation.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// AccessDenied reports an entity that exists but belongs to a
// different user than the one making the request.
func AccessDenied(message string) *AppError {
	return &AppError{
		Err:     ErrAccessDenied,
		Message: message,
	}
}

// NotImplemented marks a declared capability that has no behaviour yet.
func NotImplemented(message string) *AppError {
	return &AppError{
		Err:     ErrNotImplemented,
		Message: message,
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so clones compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnauthorized            = New("UNAUTHORIZED", http.StatusUnauthorized, "Access token required")
	ErrInvalidToken            = New("FORBIDDEN", http.StatusForbidden, "Invalid or expired token")
	ErrInvalidCredentials      = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid email or password")
	ErrForbidden               = New("FORBIDDEN", http.StatusForbidden, "Access denied")
	ErrInsufficientPermissions = New("INSUFFICIENT_PERMISSIONS", http.StatusForbidden, "Access denied")
	ErrNotFound                = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrFileMissing             = New("FILE_NOT_FOUND", http.StatusNotFound, "File not found on server. It may have been moved or deleted.")
	ErrConflict                = New("CONFLICT", http.StatusConflict, "conflict")
	ErrBadRequest              = New("BAD_REQUEST", http.StatusBadRequest, "bad request")
	ErrValidation              = New("VALIDATION_ERROR", http.StatusBadRequest, "Validation failed")
	ErrInvalidFileType         = New("INVALID_FILE_TYPE", http.StatusBadRequest, "invalid file type")
	ErrFileTooLarge            = New("FILE_TOO_LARGE", http.StatusBadRequest, "File too large")
	ErrTooManyFiles            = New("TOO_MANY_FILES", http.StatusBadRequest, "Too many files")
	ErrRateLimited             = New("RATE_LIMITED", http.StatusTooManyRequests, "Too many requests, please try again later")
	ErrCacheMiss               = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal                = New("INTERNAL_ERROR", http.StatusInternalServerError, "Something went wrong on the server")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying per-field validation output.
func WithDetails(err *Error, message string, details []FieldError) *Error {
	clone := Clone(err, message)
	if clone == nil {
		return nil
	}
	clone.Details = details
	return clone
}

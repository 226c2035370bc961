package errors

import "fmt"

// Code identifies a quill error kind.
type Code string

const (
	ErrInvalidPath    Code = "INVALID_PATH"    // 400
	ErrInvalidRequest Code = "INVALID_REQUEST" // 400
	ErrNotFound       Code = "NOT_FOUND"       // 404
	ErrAlreadyExists  Code = "ALREADY_EXISTS"  // 409
	ErrNotEmpty       Code = "NOT_EMPTY"       // 409
	ErrUnavailable    Code = "UNAVAILABLE"     // 501
	ErrInternal       Code = "INTERNAL"        // 500
)

// Error is a structured error with code, HTTP status, and details.
type Error struct {
	Code    Code
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidPath creates a 400 error for malformed or unsafe paths.
func NewInvalidPath(msg string) *Error {
	return &Error{
		Code:    ErrInvalidPath,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing note or folder.
func NewNotFound(kind, path string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, path),
		Details: map[string]any{"path": path},
	}
}

// NewAlreadyExists creates a 409 error for a destination name collision.
func NewAlreadyExists(kind, path string) *Error {
	return &Error{
		Code:    ErrAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("%s already exists: %s", kind, path),
		Details: map[string]any{"path": path},
	}
}

// NewNotEmpty creates a 409 error for a non-recursive delete of a
// populated folder.
func NewNotEmpty(path string) *Error {
	return &Error{
		Code:    ErrNotEmpty,
		Status:  409,
		Message: fmt.Sprintf("folder not empty: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewUnavailable creates a 501 error for operations that need a backend
// which is not configured.
func NewUnavailable(msg string) *Error {
	return &Error{
		Code:    ErrUnavailable,
		Status:  501,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an *Error with the given code.
func Is(err error, code Code) bool {
	if qErr, ok := err.(*Error); ok {
		return qErr.Code == code
	}
	return false
}

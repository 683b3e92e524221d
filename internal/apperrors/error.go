// Package apperrors defines the application error vocabulary shared by the
// services. Every error surfaced to a client maps onto one of the codes
// below; anything else is reported as INTERNAL_SERVER_ERROR.
package apperrors

import (
	"fmt"
	"net/http"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeBadRequest = "BAD_REQUEST"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_SERVER_ERROR"
)

// Error is an application error carrying the wire error code and the HTTP
// status it maps to.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Code: CodeBadRequest, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: fmt.Sprintf(format, args...)}
}

// ValidationError aggregates every failed constraint of a request body,
// keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation Failed" }

package common

import (
	"errors"
	"net/http"
)

// Error codes surfaced to API clients.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeStore      = "store_error"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithDetails attaches structured details rendered alongside the message.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// Validation reports a request rejected before any mutation took place.
func Validation(message string) *AppError {
	return NewAppError(CodeValidation, message, http.StatusBadRequest, nil)
}

// NotFound reports an identifier that does not resolve.
func NotFound(message string, err error) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, err)
}

// Store reports a persistence failure.
func Store(message string, err error) *AppError {
	return NewAppError(CodeStore, message, http.StatusInternalServerError, err)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var target *AppError
	if !errors.As(err, &target) {
		return false
	}
	return target.Code == code
}

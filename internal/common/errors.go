package common

import (
	"errors"
	"net/http"
)

// Codes shared by every package. Domain packages add their own (CART_EMPTY, COUPON_NOT_FOUND,
// PAYMENT_AMOUNT_MISMATCH, ...) next to the errors that use them.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL"
)

// AppError is an error a client is allowed to see: a stable code, a user-facing message and
// the HTTP status it maps to. Err is kept for logs and errors.Is.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError builds an AppError. A zero status is rendered as 400.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError reports whether err already carries a client-facing code.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// WriteError renders err in the error envelope. AppErrors keep their code and status; anything
// else becomes an opaque 500 so driver and upstream messages never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if err == nil || !errors.As(err, &appErr) {
		JSONError(w, http.StatusInternalServerError, CodeInternal, "Something went wrong. Please try again.", nil)
		return
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusBadRequest
	}
	code := appErr.Code
	if code == "" {
		code = CodeBadRequest
	}
	JSONError(w, status, code, appErr.Message, appErr.Details)
}

package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput    ErrorCode = "invalid_input"
	InvalidAmount   ErrorCode = "invalid_amount"
	AccountNotFound ErrorCode = "account_not_found"
	CardNotFound    ErrorCode = "card_not_found"
	DuplicateEmail  ErrorCode = "duplicate_email"
	InternalError   ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps the error code to the transport status convention.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount:
		return http.StatusBadRequest
	case AccountNotFound, CardNotFound:
		return http.StatusNotFound
	case DuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrAccountNotFound = NewAppError(AccountNotFound, "account not found")
	ErrCardNotFound    = NewAppError(CardNotFound, "card not found")
	ErrInvalidAmount   = NewAppError(InvalidAmount, "amount must be a positive number")
	ErrDuplicateEmail  = NewAppError(DuplicateEmail, "account already exists for this email")
)

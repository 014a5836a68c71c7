package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Validation errors (guard rejections, malformed requests)
	ErrCodeEmptyStatement     ErrorCode = "EMPTY_STATEMENT"
	ErrCodeStatementTooLong   ErrorCode = "TOO_LONG"
	ErrCodeForbiddenStatement ErrorCode = "FORBIDDEN_STATEMENT_TYPE"
	ErrCodeInvalidLimit       ErrorCode = "INVALID_LIMIT"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeValidationError    ErrorCode = "VALIDATION_ERROR"

	// Domain errors
	ErrCodePanelNotFound ErrorCode = "PANEL_NOT_FOUND"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"

	// Infrastructure errors
	ErrCodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	ErrCodeNotConfigured   ErrorCode = "NOT_CONFIGURED"
	ErrCodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Status  int // HTTP status code
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  getHTTPStatus(code),
	}
}

// WrapError wraps an existing error with an error code and message
func WrapError(code ErrorCode, message string, err error) *AppError {
	return NewAppError(code, message, err)
}

// getHTTPStatus maps error codes to HTTP status codes.
// The mapping lives here so handlers only surface it, never decide it.
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodePanelNotFound, ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeEmptyStatement, ErrCodeStatementTooLong, ErrCodeForbiddenStatement,
		ErrCodeInvalidLimit, ErrCodeInvalidInput, ErrCodeValidationError:
		return http.StatusBadRequest
	case ErrCodeUpstreamFailure:
		return http.StatusBadGateway
	case ErrCodeNotConfigured:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeNotFound || appErr.Code == ErrCodePanelNotFound
	}
	return false
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		switch appErr.Code {
		case ErrCodeEmptyStatement, ErrCodeStatementTooLong, ErrCodeForbiddenStatement,
			ErrCodeInvalidLimit, ErrCodeInvalidInput, ErrCodeValidationError:
			return true
		}
	}
	return false
}

// IsUpstream checks if the error was caused by the analytics backend
func IsUpstream(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeUpstreamFailure
	}
	return false
}

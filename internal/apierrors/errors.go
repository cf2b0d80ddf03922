package apierrors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeTransferNotFound   = "TRANSFER_NOT_FOUND"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeInvalidToken       = "INVALID_CALLBACK_TOKEN"
	CodeExpiredToken       = "EXPIRED_CALLBACK_TOKEN"
	CodeUnsupportedWebhook = "UNSUPPORTED_WEBHOOK"
	CodeAcceptFailed       = "CALL_ACCEPT_FAILED"
	CodeNotConfigured      = "NOT_CONFIGURED"
	CodeAIServiceError     = "AI_SERVICE_ERROR"
	CodeTelephonyError     = "TELEPHONY_SERVICE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// APIError is an error with the HTTP status and the sanitized message sent to the client
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error // internal cause, never sent to the client
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// BadRequest creates a 400 error
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized creates a 401 error
func Unauthorized(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: code, Message: message}
}

// Forbidden creates a 403 error
func Forbidden(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Code: code, Message: message}
}

// NotFound creates a 404 error
func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// BadGateway creates a 502 error for failures of an upstream provider
func BadGateway(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusBadGateway, Code: code, Message: message, Err: err}
}

// ServiceUnavailable creates a 503 error
func ServiceUnavailable(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, Err: err}
}

// InternalError creates a sanitized 500 error - never exposes internal details
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}

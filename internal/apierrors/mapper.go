package apierrors

import (
	"errors"
	"strings"

	"callbridge/internal/clients/openai"
	"callbridge/internal/clients/twilio"
	"callbridge/internal/escalation"
	"callbridge/internal/voicecall/processor"
)

// MapError converts domain errors to APIErrors.
// This function centralizes all error mapping logic so every webhook answers
// the providers consistently.
//
// If the error is already an APIError, it returns it as-is.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Incoming call webhooks
	case errors.Is(err, openai.ErrInvalidSignature):
		return Unauthorized(CodeInvalidSignature, "Webhook signature could not be verified")

	case errors.Is(err, openai.ErrUnsupportedWebhook):
		return BadRequest(CodeUnsupportedWebhook, "Webhook payload is not supported")

	case errors.Is(err, processor.ErrMissingCallID):
		return BadRequest(CodeInvalidInput, "Incoming call has no call id")

	case errors.Is(err, processor.ErrAcceptFailed):
		return BadGateway(CodeAcceptFailed, "The call could not be accepted", err)

	// Escalation callbacks
	case errors.Is(err, escalation.ErrExpiredCallbackToken):
		return Unauthorized(CodeExpiredToken, "Callback token has expired")

	case errors.Is(err, escalation.ErrInvalidCallbackToken):
		return Forbidden(CodeInvalidToken, "Callback token is not valid for this transfer")

	case errors.Is(err, escalation.ErrTransferNotFound):
		return NotFound(CodeTransferNotFound, "Transfer not found")

	case errors.Is(err, escalation.ErrNotConfigured), errors.Is(err, twilio.ErrNotConfigured):
		return ServiceUnavailable(CodeNotConfigured, "Staff hand-off is not configured", err)

	default:
		return mapExternalServiceError(err)
	}
}

// mapExternalServiceError attempts to identify provider errors by message
// content and map them to service-specific responses.
func mapExternalServiceError(err error) *APIError {
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "twilio") {
		return ServiceUnavailable(
			CodeTelephonyError,
			"Telephony provider is temporarily unavailable. Please try again later.",
			err,
		)
	}

	if strings.Contains(errMsg, "openai") || strings.Contains(errMsg, "realtime") {
		return ServiceUnavailable(
			CodeAIServiceError,
			"AI service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	return InternalError(err)
}

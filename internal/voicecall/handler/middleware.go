package handler

import (
	"callbridge/internal/apierrors"

	"github.com/gin-gonic/gin"
)

const twilioSignatureHeader = "X-Twilio-Signature"

// HandleTwilioSignature rejects Twilio callbacks whose signature does not match
// the public URL and form parameters. It is a no-op unless validation is on.
func (h *Handler) HandleTwilioSignature(c *gin.Context) {
	if !h.cfg.ValidateTwilio {
		c.Next()
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	params := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	url := h.cfg.PublicBaseURL + c.Request.URL.RequestURI()
	if h.signatures == nil || !h.signatures.ValidateRequest(url, params, c.GetHeader(twilioSignatureHeader)) {
		h.logger.Warn(c.Request.Context(), "rejected Twilio callback with bad signature")
		apierrors.RespondWithError(c, apierrors.Unauthorized(apierrors.CodeInvalidSignature, "Twilio signature could not be verified"))
		return
	}
	c.Next()
}

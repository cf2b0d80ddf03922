package handler

import (
	"io"
	"net/http"

	"callbridge/internal/apierrors"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// HandleRealtimeWebhook answers the AI provider's incoming-call webhook. The
// call is accepted before returning; the AI socket opens in the background.
func (h *Handler) HandleRealtimeWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Webhook body could not be read"))
		return
	}

	wh, err := h.webhooks.ParseWebhook(body, c.Request.Header)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	if err := h.voiceProcessor.HandleIncomingCall(ctx, wh); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+h.cfg.APIKey)
	c.Status(http.StatusOK)
}

package handler

import (
	"fmt"
	"net/http"
	"strings"

	"callbridge/internal/apierrors"
	twilioclient "callbridge/internal/clients/twilio"
	"callbridge/internal/voicecall/twilio"

	"github.com/gin-gonic/gin"
)

const mediaStreamPath = "/api/phone/media-stream"

// HandleVoice answers Twilio's voice webhook with TwiML that connects the call
// to our media stream.
func (h *Handler) HandleVoice(c *gin.Context) {
	ctx := c.Request.Context()

	twimlResult, err := twilioclient.StreamTwiML(h.mediaStreamURL(), c.PostForm("From"))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	h.logger.Info(ctx, fmt.Sprintf("connecting call %s to media stream", c.PostForm("CallSid")))
	c.Data(http.StatusOK, "text/xml", []byte(twimlResult))
}

// HandleMediaStream upgrades the Twilio media WebSocket and runs the call on it.
func (h *Handler) HandleMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "WebSocket upgrade failed", err)
		return
	}

	stream := twilio.NewMediaStream(conn, h.logger)
	defer stream.Close("media stream handler exit")

	h.logger.Info(ctx, "Twilio media stream connected")
	if err := h.voiceProcessor.ServeMediaStream(ctx, stream); err != nil {
		h.logger.WarnWithError(ctx, "media stream ended with error", err)
		return
	}
	h.logger.Info(ctx, "Twilio media stream ended")
}

func (h *Handler) mediaStreamURL() string {
	base := h.cfg.PublicBaseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + mediaStreamPath
}

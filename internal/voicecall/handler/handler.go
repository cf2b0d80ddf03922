package handler

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

import (
	"context"
	"net/http"
	"strings"

	"callbridge/internal/clients/openai"
	"callbridge/internal/escalation"
	"callbridge/internal/observability"
	"callbridge/internal/voicecall/processor"

	"github.com/gorilla/websocket"
)

// CallProcessor runs the call flows behind the webhooks.
type CallProcessor interface {
	HandleIncomingCall(ctx context.Context, wh *openai.Webhook) error
	ServeMediaStream(ctx context.Context, leg processor.MediaLeg) error
}

// WebhookParser verifies and decodes AI provider webhooks.
type WebhookParser interface {
	ParseWebhook(body []byte, headers http.Header) (*openai.Webhook, error)
}

// Escalation answers the Twilio callbacks of a staff hand-off.
type Escalation interface {
	HandleStaffAccept(ctx context.Context, transferID, token, digits string) (string, error)
	HandleStaffStatus(ctx context.Context, transferID, token string, status escalation.StaffStatus) error
	HandleConferenceEvent(ctx context.Context, transferID, token string, event escalation.ConferenceEvent) error
}

// SignatureValidator checks X-Twilio-Signature.
type SignatureValidator interface {
	ValidateRequest(url string, params map[string]string, signature string) bool
}

type Config struct {
	// APIKey is echoed back to the AI provider when a call is accepted.
	APIKey        string
	PublicBaseURL string
	// ValidateTwilio turns on X-Twilio-Signature checks for Twilio callbacks.
	ValidateTwilio bool
}

type Handler struct {
	voiceProcessor CallProcessor
	webhooks       WebhookParser
	escalation     Escalation
	signatures     SignatureValidator
	cfg            Config
	logger         *observability.Logger
}

func New(voiceProcessor CallProcessor, webhooks WebhookParser, escalation Escalation, signatures SignatureValidator, cfg Config, logger *observability.Logger) Handler {
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return Handler{
		voiceProcessor: voiceProcessor,
		webhooks:       webhooks,
		escalation:     escalation,
		signatures:     signatures,
		cfg:            cfg,
		logger:         logger,
	}
}

// upgrader is a shared WebSocket upgrader. Twilio is the only peer and does not
// send an Origin header; requests are authenticated by signature instead.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

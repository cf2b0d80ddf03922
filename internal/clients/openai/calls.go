package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"callbridge/internal/observability"
	"callbridge/internal/retry"
	"callbridge/internal/voice/audio"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/webhooks"
)

var (
	ErrCallGone           = errors.New("call no longer exists")
	ErrProviderRejected   = errors.New("provider rejected the request")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrUnsupportedWebhook = errors.New("unsupported webhook payload")
)

const EventCallIncoming = "realtime.call.incoming"

// SIPHeader is one header copied from the inbound SIP INVITE.
type SIPHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Webhook is a provider webhook decoded into the fields the call flow uses.
type Webhook struct {
	ID         string
	Type       string
	CallID     string
	SIPHeaders []SIPHeader
}

// AcceptRequest is the body of the accept action.
type AcceptRequest struct {
	Instructions string
	Model        string
	Voice        string
	Format       audio.Format
}

// CallsClient drives realtime SIP calls through the provider REST API.
type CallsClient struct {
	client        oai.Client
	webhookSecret string
	policy        retry.Policy
	logger        *observability.Logger
}

// NewCallsClient builds the REST client. SDK retries are disabled; the shared retry policy owns them.
func NewCallsClient(apiKey, baseURL, webhookSecret string, logger *observability.Logger) *CallsClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if webhookSecret != "" {
		opts = append(opts, option.WithWebhookSecret(webhookSecret))
	}
	return &CallsClient{
		client:        oai.NewClient(opts...),
		webhookSecret: webhookSecret,
		policy:        retry.Policy{AttemptsPerTarget: 2, Retryable: isTransient, Logger: logger},
		logger:        logger,
	}
}

// isTransient is true for network failures and provider 5xx replies.
func isTransient(err error) bool {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// ParseWebhook decodes a webhook. When a signing secret is configured the
// Standard Webhooks signature is verified first.
func (c *CallsClient) ParseWebhook(body []byte, headers http.Header) (*Webhook, error) {
	if c.webhookSecret == "" {
		return decodeWebhook(body)
	}

	event, err := c.client.Webhooks.Unwrap(body, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch e := event.AsAny().(type) {
	case webhooks.RealtimeCallIncomingWebhookEvent:
		wh := &Webhook{ID: e.ID, Type: EventCallIncoming, CallID: e.Data.CallID}
		for _, h := range e.Data.SipHeaders {
			wh.SIPHeaders = append(wh.SIPHeaders, SIPHeader{Name: h.Name, Value: h.Value})
		}
		return wh, nil
	default:
		return decodeWebhook(body)
	}
}

func decodeWebhook(body []byte) (*Webhook, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			CallID     string      `json:"call_id"`
			SIPHeaders []SIPHeader `json:"sip_headers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedWebhook, err)
	}
	return &Webhook{ID: raw.ID, Type: raw.Type, CallID: raw.Data.CallID, SIPHeaders: raw.Data.SIPHeaders}, nil
}

// Accept answers a ringing SIP call and hands it to a realtime session.
func (c *CallsClient) Accept(ctx context.Context, callID string, req AcceptRequest) error {
	format := formatSpec(req.Format)
	body := map[string]interface{}{
		"type":         "realtime",
		"model":        req.Model,
		"instructions": req.Instructions,
		"audio": map[string]interface{}{
			"input":  map[string]interface{}{"format": format},
			"output": map[string]interface{}{"format": format, "voice": req.Voice},
		},
	}
	return c.post(ctx, callID, "accept", body)
}

// Hangup ends a SIP call from the provider side.
func (c *CallsClient) Hangup(ctx context.Context, callID string) error {
	return c.post(ctx, callID, "hangup", map[string]interface{}{})
}

func (c *CallsClient) post(ctx context.Context, callID, action string, body interface{}) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_action", Value: action})
	path := fmt.Sprintf("realtime/calls/%s/%s", callID, action)

	_, err := c.policy.Run(ctx, retry.Target{
		Name: action,
		Do: func(ctx context.Context) error {
			return c.client.Post(ctx, path, body, nil)
		},
	})
	if err == nil {
		return nil
	}

	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrCallGone, callID)
		}
		return fmt.Errorf("%w: %s returned %d: %v", ErrProviderRejected, action, apiErr.StatusCode, err)
	}
	return fmt.Errorf("failed to %s call %s: %w", action, callID, err)
}

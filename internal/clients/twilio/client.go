// Package twilio wraps the Twilio REST API calls used for hang-up and staff hand-off.
package twilio

//go:generate go run go.uber.org/mock/mockgen@latest -source=client.go -destination=mocks_test.go -package=twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"callbridge/internal/config"
	"callbridge/internal/observability"
	"callbridge/internal/retry"

	twiliosdk "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	ErrNotConfigured      = errors.New("twilio credentials not configured")
	ErrConferenceNotFound = errors.New("conference not found")
	ErrCallRejected       = errors.New("twilio rejected the call request")
	ErrParticipantGone    = errors.New("conference participant already gone")
)

// CallAPI is the slice of the Twilio v2010 API this service uses.
type CallAPI interface {
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
	UpdateCall(sid string, params *openapi.UpdateCallParams) (*openapi.ApiV2010Call, error)
	ListConference(params *openapi.ListConferenceParams) ([]openapi.ApiV2010Conference, error)
	ListParticipant(conferenceSid string, params *openapi.ListParticipantParams) ([]openapi.ApiV2010Participant, error)
	DeleteParticipant(conferenceSid string, callSid string, params *openapi.DeleteParticipantParams) error
}

// OutboundCall describes a call placed by the hand-off flow.
type OutboundCall struct {
	To             string
	TwiML          string
	StatusCallback string
	TimeoutSeconds int
}

// Participant is one leg in a conference.
type Participant struct {
	CallSid string
	Label   string
}

// Client places, redirects and ends calls.
type Client struct {
	api       CallAPI
	from      string
	validator *twilioclient.RequestValidator
	policy    retry.Policy
	dial      retry.Policy
	logger    *observability.Logger
}

// NewClient returns nil when credentials are missing so callers can degrade.
func NewClient(cfg config.TwilioConfig, logger *observability.Logger) *Client {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		logger.Warn(context.Background(), "Twilio credentials not set, hand-off and telephony hang-up are disabled")
		return nil
	}
	rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	validator := twilioclient.NewRequestValidator(cfg.AuthToken)
	return NewFromAPI(rest.Api, cfg.FromNumber, &validator, logger)
}

// NewFromAPI wires a client around any CallAPI implementation.
func NewFromAPI(api CallAPI, from string, validator *twilioclient.RequestValidator, logger *observability.Logger) *Client {
	return &Client{
		api:       api,
		from:      from,
		validator: validator,
		policy:    retry.Policy{AttemptsPerTarget: 2, Retryable: isTransient, Logger: logger},
		// A lost reply may mean the phone is already ringing; dials are never repeated.
		dial:      retry.Policy{AttemptsPerTarget: 1, Logger: logger},
		logger:    logger,
	}
}

// isTransient retries network failures and 5xx replies. 4xx is a rejection.
func isTransient(err error) bool {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Status >= http.StatusInternalServerError
	}
	return true
}

func (c *Client) run(ctx context.Context, op string, fn func() error) error {
	if c == nil || c.api == nil {
		return ErrNotConfigured
	}
	return c.runWith(ctx, c.policy, op, fn)
}

func (c *Client) runWith(ctx context.Context, policy retry.Policy, op string, fn func() error) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "twilio_op", Value: op})
	_, err := policy.Run(ctx, retry.Target{Name: op, Do: func(context.Context) error { return fn() }})
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) && restErr.Status < http.StatusInternalServerError {
			return fmt.Errorf("%w: %s: %v", ErrCallRejected, op, err)
		}
		return fmt.Errorf("twilio %s failed: %w", op, err)
	}
	return nil
}

// CreateCall places an outbound call running the given TwiML and returns its sid.
// It makes exactly one attempt.
func (c *Client) CreateCall(ctx context.Context, call OutboundCall) (string, error) {
	if c == nil || c.api == nil {
		return "", ErrNotConfigured
	}
	params := &openapi.CreateCallParams{}
	params.SetTo(call.To)
	params.SetFrom(c.from)
	params.SetTwiml(call.TwiML)
	if call.StatusCallback != "" {
		params.SetStatusCallback(call.StatusCallback)
		params.SetStatusCallbackMethod(http.MethodPost)
		params.SetStatusCallbackEvent([]string{"initiated", "ringing", "answered", "completed"})
	}
	if call.TimeoutSeconds > 0 {
		params.SetTimeout(call.TimeoutSeconds)
	}

	var sid string
	err := c.runWith(ctx, c.dial, "create_call", func() error {
		resp, err := c.api.CreateCall(params)
		if err != nil {
			return err
		}
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		return nil
	})
	return sid, err
}

// RedirectCall replaces the TwiML a live call is executing.
func (c *Client) RedirectCall(ctx context.Context, callSid, twiml string) error {
	params := &openapi.UpdateCallParams{}
	params.SetTwiml(twiml)
	return c.run(ctx, "redirect_call", func() error {
		_, err := c.api.UpdateCall(callSid, params)
		return err
	})
}

// EndCall hangs up a live call.
func (c *Client) EndCall(ctx context.Context, callSid string) error {
	params := &openapi.UpdateCallParams{}
	params.SetStatus("completed")
	return c.run(ctx, "end_call", func() error {
		_, err := c.api.UpdateCall(callSid, params)
		return err
	})
}

// Participants lists the legs of the in-progress conference with the given name.
func (c *Client) Participants(ctx context.Context, conferenceName string) (string, []Participant, error) {
	var conferenceSid string
	err := c.run(ctx, "list_conference", func() error {
		params := &openapi.ListConferenceParams{}
		params.SetFriendlyName(conferenceName)
		params.SetStatus("in-progress")
		params.SetLimit(1)
		conferences, err := c.api.ListConference(params)
		if err != nil {
			return err
		}
		if len(conferences) > 0 && conferences[0].Sid != nil {
			conferenceSid = *conferences[0].Sid
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if conferenceSid == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrConferenceNotFound, conferenceName)
	}

	var participants []Participant
	err = c.run(ctx, "list_participants", func() error {
		list, err := c.api.ListParticipant(conferenceSid, &openapi.ListParticipantParams{})
		if err != nil {
			return err
		}
		participants = participants[:0]
		for _, p := range list {
			participants = append(participants, Participant{CallSid: deref(p.CallSid), Label: deref(p.Label)})
		}
		return nil
	})
	return conferenceSid, participants, err
}

// RemoveParticipant ends one leg's participation in a conference. A leg that
// has already left yields ErrParticipantGone.
func (c *Client) RemoveParticipant(ctx context.Context, conferenceSid, callSid string) error {
	gone := false
	err := c.run(ctx, "remove_participant", func() error {
		err := c.api.DeleteParticipant(conferenceSid, callSid, &openapi.DeleteParticipantParams{})
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) && restErr.Status == http.StatusNotFound {
			gone = true
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	if gone {
		return fmt.Errorf("%w: %s", ErrParticipantGone, callSid)
	}
	return nil
}

// ValidateRequest checks X-Twilio-Signature against the full callback URL and form params.
func (c *Client) ValidateRequest(url string, params map[string]string, signature string) bool {
	if c == nil || c.validator == nil {
		return false
	}
	return c.validator.Validate(url, params, signature)
}

// Enabled reports whether REST calls can be made.
func (c *Client) Enabled() bool {
	return c != nil && c.api != nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

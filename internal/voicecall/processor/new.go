// Package processor ties one phone call together: it accepts the call, opens
// the AI session, moves audio between the legs and routes AI events to the
// transcript sink and the tool orchestrator.
package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=new.go -destination=mocks_test.go -package=processor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"callbridge/internal/callsession"
	"callbridge/internal/clients/kafka"
	"callbridge/internal/clients/openai"
	"callbridge/internal/observability"
	"callbridge/internal/voice/audio"
)

const defaultAcceptTimeout = 800 * time.Millisecond

var (
	ErrMissingCallID = errors.New("incoming call has no call id")
	ErrAcceptFailed  = errors.New("failed to accept call")
)

// CallsAPI accepts and ends calls the AI provider terminates over SIP.
type CallsAPI interface {
	Accept(ctx context.Context, callID string, req openai.AcceptRequest) error
	Hangup(ctx context.Context, callID string) error
}

// AISession is an opened realtime socket that still needs its handshake.
type AISession interface {
	callsession.AILeg
	Start() error
}

// Dialer opens the realtime socket for one call.
type Dialer interface {
	Dial(ctx context.Context, cfg openai.SessionConfig, handler openai.Handler) (AISession, error)
}

// ToolRunner receives the function-call events of a session.
type ToolRunner interface {
	OnToolArgumentDelta(session *callsession.Session, invocationID, fragment string)
	OnToolCallDone(ctx context.Context, session *callsession.Session, invocationID, name, arguments string)
}

// EventSink receives transcript and passthrough events.
type EventSink interface {
	Forward(ctx context.Context, sessionID string, event json.RawMessage)
	ForwardValue(ctx context.Context, sessionID string, v interface{})
}

// Publisher receives call lifecycle events.
type Publisher interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

type Config struct {
	RealtimeURL        string
	APIKey             string
	Model              string
	Voice              string
	Instructions       string
	TranscriptionModel string
	Format             audio.Format
	DefaultLanguage    string
	Tools              []interface{}
	HandshakeTimeout   time.Duration
	// AcceptTimeout bounds the provider accept so the webhook answers in time.
	AcceptTimeout time.Duration
}

type VoiceCallProcessor struct {
	store     *callsession.Store
	calls     CallsAPI
	dialer    Dialer
	tools     ToolRunner
	sink      EventSink
	publisher Publisher
	cfg       Config
	logger    *observability.Logger
}

// Options carries the optional collaborators. A nil sink or publisher drops events.
type Options struct {
	Sink      EventSink
	Publisher Publisher
}

func NewVoiceCallProcessor(store *callsession.Store, calls CallsAPI, dialer Dialer, tools ToolRunner, cfg Config, opts Options, logger *observability.Logger) *VoiceCallProcessor {
	if cfg.Format == "" {
		cfg.Format = audio.FormatPCMU
	}
	if cfg.AcceptTimeout <= 0 {
		cfg.AcceptTimeout = defaultAcceptTimeout
	}
	return &VoiceCallProcessor{
		store:     store,
		calls:     calls,
		dialer:    dialer,
		tools:     tools,
		sink:      opts.Sink,
		publisher: opts.Publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// RealtimeDialer dials the provider's realtime endpoint.
type RealtimeDialer struct {
	Logger *observability.Logger
}

func (d RealtimeDialer) Dial(ctx context.Context, cfg openai.SessionConfig, handler openai.Handler) (AISession, error) {
	session, err := openai.Dial(ctx, cfg, handler, d.Logger)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (p *VoiceCallProcessor) sessionConfig(url, language string, input audio.Format) openai.SessionConfig {
	return openai.SessionConfig{
		URL:                url,
		APIKey:             p.cfg.APIKey,
		InputFormat:        input,
		OutputFormat:       p.cfg.Format,
		Voice:              p.cfg.Voice,
		Instructions:       p.cfg.Instructions,
		TranscriptionModel: p.cfg.TranscriptionModel,
		Language:           language,
		Tools:              p.cfg.Tools,
		HandshakeTimeout:   p.cfg.HandshakeTimeout,
	}
}

func (p *VoiceCallProcessor) publish(ctx context.Context, eventType string, session *callsession.Session, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["mode"] = string(session.Mode)
	if err := p.publisher.PublishEvent(ctx, kafka.NewEvent(eventType, session.CallID, data)); err != nil {
		p.logger.WarnWithError(ctx, "failed to publish call event", err)
	}
}

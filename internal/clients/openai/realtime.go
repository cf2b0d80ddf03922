package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"callbridge/internal/observability"
	"callbridge/internal/voice/audio"

	"github.com/gorilla/websocket"
)

var ErrSessionClosed = errors.New("realtime session closed")

// SessionConfig describes one realtime socket.
type SessionConfig struct {
	URL                string
	APIKey             string
	InputFormat        audio.Format
	OutputFormat       audio.Format
	Voice              string
	Instructions       string
	TranscriptionModel string
	Language           string
	Tools              []interface{}
	HandshakeTimeout   time.Duration
}

// SidebandURL is the control socket for a call the provider already terminated over SIP.
func SidebandURL(base, callID string) string {
	return base + "?" + url.Values{"call_id": {callID}}.Encode()
}

// ModelURL opens a fresh session on a model, used when we carry the media ourselves.
func ModelURL(base, model string) string {
	return base + "?" + url.Values{"model": {model}}.Encode()
}

// Handler receives decoded events in arrival order and the final close.
type Handler interface {
	HandleEvent(ctx context.Context, event Event)
	HandleClose(ctx context.Context, code int, reason string)
}

// Session is one realtime AI socket. Every send checks liveness first and writes
// are serialised.
type Session struct {
	conn    *websocket.Conn
	cfg     SessionConfig
	handler Handler
	logger  *observability.Logger
	ctx     context.Context

	writeMutex sync.Mutex
	alive      atomic.Bool
	closeOnce  sync.Once
	closeWhy   atomic.Value

	sessionUpdated chan struct{}
	ackOnce        sync.Once
	toolsOnce      sync.Once
	done           chan struct{}
}

// Dial connects the socket. Start must be called to begin the handshake.
func Dial(ctx context.Context, cfg SessionConfig, handler Handler, logger *observability.Logger) (*Session, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+cfg.APIKey)

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to realtime endpoint (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to realtime endpoint: %w", err)
	}
	return newSession(ctx, conn, cfg, handler, logger), nil
}

func newSession(ctx context.Context, conn *websocket.Conn, cfg SessionConfig, handler Handler, logger *observability.Logger) *Session {
	s := &Session{
		conn:           conn,
		cfg:            cfg,
		handler:        handler,
		logger:         logger,
		ctx:            ctx,
		sessionUpdated: make(chan struct{}),
		done:           make(chan struct{}),
	}
	s.alive.Store(true)
	return s
}

// Start runs the two-phase handshake and the reader. Phase 1 negotiates audio and
// asks for a greeting; tools are registered only once session.updated confirms
// phase 1, or after the handshake timeout.
func (s *Session) Start() error {
	go s.receive()

	if err := s.send(s.audioUpdate()); err != nil {
		return fmt.Errorf("failed to send audio session update: %w", err)
	}
	if err := s.RequestResponse(); err != nil {
		return fmt.Errorf("failed to request greeting: %w", err)
	}

	go s.awaitHandshake()
	return nil
}

func (s *Session) awaitHandshake() {
	timeout := s.cfg.HandshakeTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.sessionUpdated:
	case <-timer.C:
		s.logger.Warn(s.ctx, "no session.updated before handshake timeout, registering tools anyway")
	case <-s.done:
		return
	}
	s.registerTools()
}

func (s *Session) registerTools() {
	s.toolsOnce.Do(func() {
		if len(s.cfg.Tools) == 0 {
			return
		}
		err := s.send(map[string]interface{}{
			"type": "session.update",
			"session": map[string]interface{}{
				"type":        "realtime",
				"tools":       s.cfg.Tools,
				"tool_choice": "auto",
			},
		})
		if err != nil {
			s.logger.Error(s.ctx, "failed to register tools", err)
			return
		}
		s.logger.Info(s.ctx, fmt.Sprintf("registered %d tools", len(s.cfg.Tools)))
	})
}

func (s *Session) audioUpdate() map[string]interface{} {
	session := map[string]interface{}{
		"type": "realtime",
		"audio": map[string]interface{}{
			"input": map[string]interface{}{
				"format":        formatSpec(s.cfg.InputFormat),
				"transcription": s.transcription(s.cfg.Language),
			},
			"output": map[string]interface{}{
				"format": formatSpec(s.cfg.OutputFormat),
				"voice":  s.cfg.Voice,
			},
		},
	}
	if s.cfg.Instructions != "" {
		session["instructions"] = s.cfg.Instructions
	}
	return map[string]interface{}{"type": "session.update", "session": session}
}

func (s *Session) transcription(language string) map[string]interface{} {
	t := map[string]interface{}{"model": s.cfg.TranscriptionModel}
	if language != "" {
		t["language"] = language
	}
	return t
}

// formatSpec is the wire shape of an audio format. Linear PCM carries its rate.
func formatSpec(f audio.Format) map[string]interface{} {
	if f == "" {
		f = audio.FormatPCMU
	}
	desc := map[string]interface{}{"type": string(f)}
	if f == audio.FormatPCM16 {
		desc["rate"] = audio.PCM16SampleRate
	}
	return desc
}

func (s *Session) receive() {
	defer close(s.done)

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			s.alive.Store(false)
			code, reason := closeDetails(err)
			if why, ok := s.closeWhy.Load().(string); ok && why != "" {
				reason = why
			}
			if code == websocket.CloseNormalClosure || code == websocket.CloseGoingAway {
				s.logger.Info(s.ctx, "realtime socket closed")
			} else {
				s.logger.WarnWithError(s.ctx, "realtime socket read failed", err)
			}
			s.handler.HandleClose(s.ctx, code, reason)
			return
		}

		event, err := DecodeEvent(msg)
		if err != nil {
			s.logger.WarnWithError(s.ctx, "dropping undecodable realtime event", err)
			continue
		}

		if _, ok := event.(SessionUpdated); ok {
			s.ackOnce.Do(func() { close(s.sessionUpdated) })
		}
		s.handler.HandleEvent(s.ctx, event)
	}
}

func closeDetails(err error) (int, string) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code, closeErr.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}

func (s *Session) send(event interface{}) error {
	if !s.Alive() {
		return ErrSessionClosed
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal realtime event: %w", err)
	}

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	if !s.Alive() {
		return ErrSessionClosed
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.alive.Store(false)
		return fmt.Errorf("failed to write realtime event: %w", err)
	}
	return nil
}

// Alive reports whether the socket can still be written to.
func (s *Session) Alive() bool {
	return s.alive.Load()
}

// Done is closed when the reader has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// SendAudio appends caller audio to the input buffer.
func (s *Session) SendAudio(payload []byte) error {
	return s.send(map[string]interface{}{
		"type":  "input_audio_buffer.append",
		"audio": base64.StdEncoding.EncodeToString(payload),
	})
}

// SendToolResult returns the output of a function call.
func (s *Session) SendToolResult(invocationID, output string) error {
	return s.send(map[string]interface{}{
		"type": "conversation.item.create",
		"item": map[string]interface{}{
			"type":    "function_call_output",
			"call_id": invocationID,
			"output":  output,
		},
	})
}

// RequestResponse asks the AI to speak.
func (s *Session) RequestResponse() error {
	return s.send(map[string]string{"type": "response.create"})
}

// UpdateTranscriptionLanguage changes the live input transcription language.
func (s *Session) UpdateTranscriptionLanguage(language string) error {
	return s.send(map[string]interface{}{
		"type": "session.update",
		"session": map[string]interface{}{
			"type": "realtime",
			"audio": map[string]interface{}{
				"input": map[string]interface{}{
					"transcription": s.transcription(language),
				},
			},
		},
	})
}

// InjectSystemMessage adds out-of-band context the AI should act on.
func (s *Session) InjectSystemMessage(text string) error {
	return s.send(map[string]interface{}{
		"type": "conversation.item.create",
		"item": map[string]interface{}{
			"type": "message",
			"role": "system",
			"content": []map[string]string{
				{"type": "input_text", "text": text},
			},
		},
	})
}

// Close sends a close frame once and releases the socket. The reader reports
// the close to the handler.
func (s *Session) Close(reason string) error {
	var err error
	s.closeOnce.Do(func() {
		s.closeWhy.Store(reason)

		s.writeMutex.Lock()
		if s.alive.Swap(false) {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, truncateReason(reason))
			_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		}
		s.writeMutex.Unlock()

		err = s.conn.Close()
	})
	return err
}

// Close frames carry at most 123 bytes of reason.
func truncateReason(reason string) string {
	if len(reason) > 123 {
		return reason[:123]
	}
	return reason
}

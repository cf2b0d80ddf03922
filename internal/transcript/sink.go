// Package transcript forwards AI session events to the local transcript
// WebSocket and, when configured, to the call-event topic.
package transcript

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"callbridge/internal/clients/kafka"
	"callbridge/internal/observability"

	"github.com/gorilla/websocket"
)

const (
	queueSize     = 256
	writeTimeout  = 2 * time.Second
	redialBackoff = 5 * time.Second
)

// Publisher receives a copy of every forwarded event.
type Publisher interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

// Envelope is the frame written to the transcript socket.
type Envelope struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Event     json.RawMessage `json:"event"`
}

// Sink is fire-and-forget: Forward never blocks the caller and drops
// events when the queue is full or the socket is unreachable.
type Sink struct {
	url       string
	dialer    *websocket.Dialer
	publisher Publisher
	logger    *observability.Logger

	queue     chan Envelope
	done      chan struct{}
	closeOnce sync.Once

	conn       *websocket.Conn
	nextDialAt time.Time
}

// NewSink returns a sink writing to url. An empty url disables the socket
// but still fans out to publisher.
func NewSink(url string, publisher Publisher, logger *observability.Logger) *Sink {
	return &Sink{
		url:       url,
		dialer:    websocket.DefaultDialer,
		publisher: publisher,
		logger:    logger,
		queue:     make(chan Envelope, queueSize),
		done:      make(chan struct{}),
	}
}

// Run drains the queue until ctx ends or Close is called.
func (s *Sink) Run(ctx context.Context) {
	defer s.disconnect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case env := <-s.queue:
			s.write(ctx, env)
		}
	}
}

// Forward queues one AI event for the given call.
func (s *Sink) Forward(ctx context.Context, sessionID string, event json.RawMessage) {
	if s == nil {
		return
	}
	env := Envelope{Type: "transcript_event", SessionID: sessionID, Event: event}
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.queue <- env:
	default:
		s.logger.Warn(observability.WithCall(ctx, sessionID), "transcript queue full, dropping event")
	}
}

// ForwardValue marshals v and forwards it.
func (s *Sink) ForwardValue(ctx context.Context, sessionID string, v interface{}) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnWithError(ctx, "failed to marshal transcript event", err)
		return
	}
	s.Forward(ctx, sessionID, raw)
}

func (s *Sink) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Sink) write(ctx context.Context, env Envelope) {
	ctx = observability.WithCall(ctx, env.SessionID)

	if s.publisher != nil {
		event := kafka.NewEvent(kafka.EventTranscript, env.SessionID, map[string]interface{}{"event": env.Event})
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			s.logger.WarnWithError(ctx, "failed to publish transcript event", err)
		}
	}

	if s.url == "" {
		return
	}
	conn := s.connect(ctx)
	if conn == nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(env); err != nil {
		s.logger.WarnWithError(ctx, "transcript sink write failed", err)
		s.disconnect()
	}
}

func (s *Sink) connect(ctx context.Context) *websocket.Conn {
	if s.conn != nil {
		return s.conn
	}
	if time.Now().Before(s.nextDialAt) {
		return nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	conn, _, err := s.dialer.DialContext(dialCtx, s.url, nil)
	if err != nil {
		s.nextDialAt = time.Now().Add(redialBackoff)
		s.logger.WarnWithError(ctx, "transcript sink unreachable", err)
		return nil
	}
	s.conn = conn
	return conn
}

func (s *Sink) disconnect() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

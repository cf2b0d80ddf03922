// Package twilio is the Twilio media stream leg of a call.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"callbridge/internal/observability"
	"callbridge/internal/voice/audio"

	"github.com/gorilla/websocket"
)

var ErrStreamClosed = errors.New("media stream closed")

const writeWait = 5 * time.Second

// FrameHandler receives frames in arrival order.
type FrameHandler interface {
	HandleFrame(ctx context.Context, frame Frame)
}

// MediaStream wraps one Twilio media WebSocket. Sends check liveness and are
// serialised; Close runs once.
type MediaStream struct {
	conn   *websocket.Conn
	logger *observability.Logger

	mu        sync.Mutex
	streamSid string

	writeMutex    sync.Mutex
	alive         atomic.Bool
	closedLocally atomic.Bool
	closeOnce     sync.Once
}

func NewMediaStream(conn *websocket.Conn, logger *observability.Logger) *MediaStream {
	s := &MediaStream{conn: conn, logger: logger}
	s.alive.Store(true)
	return s
}

// Run reads frames until the stream stops or the socket fails. It returns
// nil on a stop frame or a normal close.
func (s *MediaStream) Run(ctx context.Context, handler FrameHandler) error {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			s.alive.Store(false)
			if s.closedLocally.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info(ctx, "Twilio media stream closed normally")
				return nil
			}
			return fmt.Errorf("media stream read failed: %w", err)
		}

		frame, err := DecodeFrame(msg)
		if err != nil {
			s.logger.WarnWithError(ctx, "failed to parse Twilio frame", err)
			continue
		}
		if frame == nil {
			continue
		}

		switch f := frame.(type) {
		case StartFrame:
			s.mu.Lock()
			s.streamSid = f.StreamSid
			s.mu.Unlock()
		case StopFrame:
			handler.HandleFrame(ctx, f)
			s.alive.Store(false)
			return nil
		}
		handler.HandleFrame(ctx, frame)
	}
}

func (s *MediaStream) StreamSid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamSid
}

func (s *MediaStream) Alive() bool {
	return s.alive.Load()
}

func (s *MediaStream) write(v interface{}) error {
	if !s.Alive() {
		return ErrStreamClosed
	}
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		s.alive.Store(false)
		return fmt.Errorf("media stream write failed: %w", err)
	}
	return nil
}

// SendAudio sends one µ-law frame as its own media message.
func (s *MediaStream) SendAudio(mulaw []byte) error {
	msg := outboundMedia{Event: "media", StreamSid: s.StreamSid()}
	msg.Media.Payload = audio.BytesToBase64(mulaw)
	return s.write(msg)
}

// SendMark asks Twilio to echo name back once queued audio has played.
func (s *MediaStream) SendMark(name string) error {
	msg := outboundMark{Event: "mark", StreamSid: s.StreamSid()}
	msg.Mark.Name = name
	return s.write(msg)
}

// Clear drops audio Twilio has buffered but not yet played, used when the caller barges in.
func (s *MediaStream) Clear() error {
	return s.write(outboundClear{Event: "clear", StreamSid: s.StreamSid()})
}

func (s *MediaStream) Close(reason string) error {
	var err error
	s.closeOnce.Do(func() {
		s.closedLocally.Store(true)
		s.alive.Store(false)
		s.writeMutex.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, truncate(reason, 123)),
			time.Now().Add(time.Second))
		s.writeMutex.Unlock()
		err = s.conn.Close()
	})
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

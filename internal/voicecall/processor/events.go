package processor

import (
	"context"
	"fmt"

	"callbridge/internal/callsession"
	"callbridge/internal/clients/openai"
	"callbridge/internal/observability"
	"callbridge/internal/voice/audio"
)

const eventSpeechStarted = "input_audio_buffer.speech_started"

// clearer is implemented by telephony legs that can drop queued playback.
type clearer interface {
	Clear() error
}

// marker is implemented by telephony legs that echo a named mark once the
// audio queued before it has played.
type marker interface {
	SendMark(name string) error
}

// aiEvents routes the events of one AI socket. It runs on the socket's reader
// goroutine, so events are handled in arrival order.
type aiEvents struct {
	p       *VoiceCallProcessor
	session *callsession.Session
}

func (h *aiEvents) HandleEvent(ctx context.Context, event openai.Event) {
	ctx = observability.WithCall(ctx, h.session.CallID)
	p := h.p

	switch e := event.(type) {
	case openai.AudioDelta:
		h.playAudio(ctx, e.ItemID, e.Audio)
	case openai.InputTranscriptCompleted:
		p.forward(ctx, h.session, map[string]interface{}{
			"type":       e.Type,
			"item_id":    e.ItemID,
			"transcript": e.Transcript,
		})
	case openai.OutputTranscriptDone:
		p.forward(ctx, h.session, map[string]interface{}{
			"type":        e.Type,
			"response_id": e.ResponseID,
			"item_id":     e.ItemID,
			"transcript":  e.Transcript,
		})
	case openai.FunctionArgumentsDelta:
		p.tools.OnToolArgumentDelta(h.session, e.CallID, e.Delta)
	case openai.FunctionArgumentsDone:
		p.tools.OnToolCallDone(ctx, h.session, e.CallID, e.Name, e.Arguments)
	case openai.ErrorEvent:
		ctx = observability.WithFields(ctx,
			observability.Field{Key: "ai_error_code", Value: e.Code},
			observability.Field{Key: "ai_error_param", Value: e.Param},
		)
		p.logger.Warn(ctx, fmt.Sprintf("AI session reported an error: %s", e.Message))
	case openai.SessionUpdated:
		p.logger.Debug(ctx, "AI session updated")
	case openai.Passthrough:
		if e.Type == eventSpeechStarted {
			h.bargeIn(ctx)
		}
		if p.sink != nil {
			p.sink.Forward(ctx, h.session.CallID, e.Raw)
		}
	}
}

// HandleClose ends the call when the AI socket goes away, for any reason.
func (h *aiEvents) HandleClose(ctx context.Context, code int, reason string) {
	ctx = observability.WithCall(ctx, h.session.CallID)
	h.p.logger.Info(ctx, fmt.Sprintf("AI session closed (code %d): %s", code, reason))
	h.p.forward(ctx, h.session, map[string]interface{}{
		"type":   "session.end",
		"code":   code,
		"reason": reason,
	})
	if reason == "" {
		reason = "ai session closed"
	}
	h.p.end(ctx, h.session, reason)
}

// playAudio converts AI output to 20 ms mu-law frames for the media leg and
// follows the burst with a mark named after the output item. SIP calls carry
// audio inside the provider and have no media leg.
func (h *aiEvents) playAudio(ctx context.Context, itemID string, payload []byte) {
	leg := h.session.Telephony()
	if leg == nil || !leg.Alive() {
		return
	}
	mulaw, err := audio.ToTelephony(payload, h.p.cfg.Format)
	if err != nil {
		h.p.logger.WarnWithError(ctx, "dropping AI audio", err)
		return
	}
	for _, frame := range audio.Frames(mulaw, audio.FrameSize) {
		if err := leg.SendAudio(frame); err != nil {
			h.p.logger.WarnWithError(ctx, "failed to send audio to caller", err)
			return
		}
	}
	m, ok := leg.(marker)
	if !ok {
		return
	}
	if itemID == "" {
		itemID = "audio"
	}
	if err := m.SendMark(itemID); err != nil {
		h.p.logger.WarnWithError(ctx, "failed to queue playback mark", err)
	}
}

func (h *aiEvents) bargeIn(ctx context.Context) {
	leg, ok := h.session.Telephony().(clearer)
	if !ok {
		return
	}
	if err := leg.Clear(); err != nil {
		h.p.logger.WarnWithError(ctx, "failed to clear caller playback", err)
	}
}

func (p *VoiceCallProcessor) forward(ctx context.Context, session *callsession.Session, v interface{}) {
	if p.sink == nil {
		return
	}
	p.sink.ForwardValue(ctx, session.CallID, v)
}

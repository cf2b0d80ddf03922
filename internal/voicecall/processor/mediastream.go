package processor

import (
	"context"
	"fmt"

	"callbridge/internal/callsession"
	"callbridge/internal/clients/kafka"
	"callbridge/internal/clients/openai"
	"callbridge/internal/observability"
	"callbridge/internal/voice/audio"
	"callbridge/internal/voicecall/twilio"
)

// CallerParameter is the stream parameter carrying the caller's number.
const CallerParameter = "callerNumber"

// MediaLeg is a Twilio media stream socket.
type MediaLeg interface {
	callsession.TelephonyLeg
	Run(ctx context.Context, handler twilio.FrameHandler) error
}

// ServeMediaStream runs one Twilio media stream until it stops. The start frame
// creates the call session and opens the AI session; when the stream ends the
// call is torn down.
func (p *VoiceCallProcessor) ServeMediaStream(ctx context.Context, leg MediaLeg) error {
	frames := &mediaFrames{p: p, leg: leg, ctx: context.WithoutCancel(ctx)}
	err := leg.Run(ctx, frames)
	if frames.session != nil {
		reason := "media stream ended"
		if err != nil {
			reason = "media stream failed"
		}
		p.end(frames.ctx, frames.session, reason)
	}
	return err
}

// mediaFrames handles the frames of one stream on its reader goroutine.
type mediaFrames struct {
	p       *VoiceCallProcessor
	leg     MediaLeg
	ctx     context.Context
	session *callsession.Session
}

func (m *mediaFrames) HandleFrame(ctx context.Context, frame twilio.Frame) {
	switch f := frame.(type) {
	case twilio.StartFrame:
		m.start(ctx, f)
	case twilio.MediaFrame:
		if m.session == nil {
			return
		}
		if ai := m.session.AI(); ai != nil && ai.Alive() {
			payload, err := audio.ToAI(f.Payload, m.p.cfg.Format)
			if err != nil {
				m.p.logger.WarnWithError(m.ctx, "failed to convert caller audio", err)
				return
			}
			if err := ai.SendAudio(payload); err != nil {
				m.p.logger.WarnWithError(m.ctx, "failed to send caller audio to AI", err)
			}
		}
	case twilio.StopFrame:
		m.p.logger.Info(m.ctx, "caller hung up")
	case twilio.MarkFrame:
		m.p.logger.Debug(m.ctx, fmt.Sprintf("playback mark %s reached", f.Name))
	case twilio.DTMFFrame:
		m.p.logger.Info(m.ctx, fmt.Sprintf("caller pressed %s", f.Digit))
	}
}

func (m *mediaFrames) start(ctx context.Context, f twilio.StartFrame) {
	if m.session != nil {
		return
	}
	callID := f.CallSid
	if callID == "" {
		callID = f.StreamSid
	}
	m.ctx = observability.WithFields(observability.WithCall(m.ctx, callID),
		observability.Field{Key: "stream_sid", Value: f.StreamSid},
	)

	phone, ok := NormalisePhone(f.CustomParameters[CallerParameter])
	if !ok {
		m.p.logger.Warn(m.ctx, fmt.Sprintf("could not normalise caller number %q", phone))
	}

	session, created := m.p.store.Create(callID, phone, callsession.ModeMediaStream, m.p.cfg.DefaultLanguage)
	if !created {
		m.p.logger.Warn(m.ctx, "media stream started for a call that already has a session")
		_ = m.leg.Close("duplicate stream")
		return
	}
	m.session = session
	session.SetGuestCallSid(f.CallSid)
	session.AttachTelephony(m.leg)
	session.Transition(callsession.StateIncoming, callsession.StateAccepting)
	session.Transition(callsession.StateAccepting, callsession.StateAccepted)

	m.p.logger.Info(m.ctx, "media stream started")
	m.p.publish(m.ctx, kafka.EventCallAccepted, session, map[string]interface{}{"caller_phone": phone})

	// Twilio media is 8 kHz mu-law; frames are transcoded to the configured format.
	go m.p.openAI(m.ctx, session, openai.ModelURL(m.p.cfg.RealtimeURL, m.p.cfg.Model), m.p.cfg.Format)
}

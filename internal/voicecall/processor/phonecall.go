package processor

import (
	"context"
	"fmt"

	"callbridge/internal/callsession"
	"callbridge/internal/clients/kafka"
	"callbridge/internal/clients/openai"
	"callbridge/internal/observability"
	"callbridge/internal/voice/audio"
)

// HandleIncomingCall accepts a SIP call the AI provider is ringing. Repeated
// webhooks for one call id are a no-op success. The AI socket is opened in the
// background so the webhook can be answered at once.
func (p *VoiceCallProcessor) HandleIncomingCall(ctx context.Context, wh *openai.Webhook) error {
	if wh.Type != openai.EventCallIncoming {
		p.logger.Info(ctx, fmt.Sprintf("ignoring webhook of type %s", wh.Type))
		return nil
	}
	if wh.CallID == "" {
		return ErrMissingCallID
	}
	ctx = observability.WithCall(ctx, wh.CallID)

	ledger := p.store.Ledger()
	first, err := ledger.Claim(ctx, wh.CallID)
	if err != nil {
		// Local session dedup below still holds on this replica.
		p.logger.WarnWithError(ctx, "accept ledger unavailable", err)
		first = true
	}
	if !first {
		p.logger.Info(ctx, "duplicate incoming call webhook ignored")
		return nil
	}

	phone, ok := CallerPhone(wh.SIPHeaders)
	if !ok {
		p.logger.Warn(ctx, fmt.Sprintf("could not extract caller phone, using raw identity %q", phone))
	}

	session, created := p.store.Create(wh.CallID, phone, callsession.ModeSIP, p.cfg.DefaultLanguage)
	if !created {
		p.logger.Info(ctx, "call already has a session")
		return nil
	}
	if sid := headerValue(wh.SIPHeaders, guestCallSidHeader); sid != "" {
		session.SetGuestCallSid(sid)
	}
	session.Transition(callsession.StateIncoming, callsession.StateAccepting)

	acceptCtx, cancel := context.WithTimeout(ctx, p.cfg.AcceptTimeout)
	err = p.calls.Accept(acceptCtx, wh.CallID, openai.AcceptRequest{
		Instructions: p.cfg.Instructions,
		Model:        p.cfg.Model,
		Voice:        p.cfg.Voice,
		Format:       p.cfg.Format,
	})
	cancel()
	if err != nil {
		p.store.Teardown(ctx, wh.CallID, "accept failed")
		if releaseErr := ledger.Release(ctx, wh.CallID); releaseErr != nil {
			p.logger.WarnWithError(ctx, "failed to release accept claim", releaseErr)
		}
		return fmt.Errorf("%w: %v", ErrAcceptFailed, err)
	}

	session.Transition(callsession.StateAccepting, callsession.StateAccepted)
	p.logger.Info(ctx, "call accepted")
	p.publish(ctx, kafka.EventCallAccepted, session, map[string]interface{}{"caller_phone": phone})

	go p.openAI(context.WithoutCancel(ctx), session, openai.SidebandURL(p.cfg.RealtimeURL, wh.CallID), p.cfg.Format)
	return nil
}

// openAI dials the realtime socket, attaches it to the session and starts the
// handshake. Any failure tears the call down.
func (p *VoiceCallProcessor) openAI(ctx context.Context, session *callsession.Session, url string, input audio.Format) {
	handler := &aiEvents{p: p, session: session}
	ai, err := p.dialer.Dial(ctx, p.sessionConfig(url, session.Language(), input), handler)
	if err != nil {
		p.logger.Error(ctx, "failed to open AI session", err)
		p.end(ctx, session, "ai session unavailable")
		return
	}

	session.AttachAI(ai)
	go func() {
		<-session.Closed()
		_ = ai.Close("call ended")
	}()
	if session.IsClosed() {
		return
	}
	if err := ai.Start(); err != nil {
		p.logger.Error(ctx, "failed to start AI session", err)
		p.end(ctx, session, "ai handshake failed")
		return
	}
	session.Transition(callsession.StateAccepted, callsession.StateStreamOpen)
	p.logger.Info(ctx, "AI session open")
}

// end tears the call down unless it is already closed.
func (p *VoiceCallProcessor) end(ctx context.Context, session *callsession.Session, reason string) {
	if session.IsClosed() {
		return
	}
	p.store.Teardown(ctx, session.CallID, reason)
	p.publish(ctx, kafka.EventCallEnded, session, map[string]interface{}{"reason": reason})
}

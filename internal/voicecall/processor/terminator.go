package processor

import (
	"context"
	"errors"
	"fmt"

	"callbridge/internal/callsession"
)

var ErrNoHangupRoute = errors.New("no provider can end this call")

// CallEnder ends a Twilio call leg.
type CallEnder interface {
	EndCall(ctx context.Context, callSid string) error
}

// Terminator ends the guest's call through whichever provider carries it: the
// AI provider for SIP calls, Twilio for media-stream calls.
type Terminator struct {
	calls     CallsAPI
	telephony CallEnder
}

func NewTerminator(calls CallsAPI, telephony CallEnder) *Terminator {
	return &Terminator{calls: calls, telephony: telephony}
}

func (t *Terminator) Hangup(ctx context.Context, session *callsession.Session) error {
	switch session.Mode {
	case callsession.ModeSIP:
		if t.calls == nil {
			return ErrNoHangupRoute
		}
		if err := t.calls.Hangup(ctx, session.CallID); err != nil {
			return fmt.Errorf("failed to hang up SIP call: %w", err)
		}
		return nil
	case callsession.ModeMediaStream:
		sid := session.GuestCallSid()
		if t.telephony == nil || sid == "" {
			return ErrNoHangupRoute
		}
		if err := t.telephony.EndCall(ctx, sid); err != nil {
			return fmt.Errorf("failed to end media stream call: %w", err)
		}
		return nil
	default:
		return ErrNoHangupRoute
	}
}

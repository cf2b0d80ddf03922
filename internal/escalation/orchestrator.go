// Package escalation drives the staff hand-off of a call: it rings staff, puts
// staff and guest into one conference and removes the AI leg from it.
package escalation

//go:generate go run go.uber.org/mock/mockgen@latest -source=orchestrator.go -destination=mocks_test.go -package=escalation
//go:generate go run go.uber.org/mock/mockgen@latest -destination=aileg_mock_test.go -package=escalation callbridge/internal/callsession AILeg

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"callbridge/internal/callsession"
	"callbridge/internal/clients/kafka"
	"callbridge/internal/clients/mail"
	"callbridge/internal/clients/twilio"
	"callbridge/internal/observability"
	"callbridge/internal/tools"

	"github.com/google/uuid"
)

const (
	defaultRingTimeout   = 30 * time.Second
	defaultBridgeTimeout = 60 * time.Second
	watchdogMargin       = 10 * time.Second
)

var (
	ErrNotConfigured      = errors.New("staff hand-off not configured")
	ErrTransferInProgress = callsession.ErrTransferInProgress
	ErrTransferNotFound   = errors.New("transfer not found")
)

// Telephony is the slice of the Twilio client the hand-off uses.
type Telephony interface {
	CreateCall(ctx context.Context, call twilio.OutboundCall) (string, error)
	RedirectCall(ctx context.Context, callSid, twiml string) error
	EndCall(ctx context.Context, callSid string) error
	Participants(ctx context.Context, conferenceName string) (string, []twilio.Participant, error)
	RemoveParticipant(ctx context.Context, conferenceSid, callSid string) error
}

// Mailer tells a manager about hand-offs that did not connect.
type Mailer interface {
	NotifyHandoffFailed(ctx context.Context, failure mail.HandoffFailure) error
}

// Publisher receives transfer state changes.
type Publisher interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

// Hanger ends the guest's original call once the guest was called back into the conference.
type Hanger interface {
	Hangup(ctx context.Context, session *callsession.Session) error
}

type Config struct {
	StaffPhone    string
	StaffLanguage string
	PublicBaseURL string
	Secret        string
	// StaffAcceptTimeout is the keypress wait on the staff leg.
	StaffAcceptTimeout time.Duration
	RingTimeout        time.Duration
	// BridgeTimeout bounds StaffReady to Bridged.
	BridgeTimeout time.Duration
}

type Orchestrator struct {
	store     *callsession.Store
	telephony Telephony
	mailer    Mailer
	publisher Publisher
	hanger    Hanger
	cfg       Config
	margin    time.Duration
	logger    *observability.Logger
}

// Options carries the optional collaborators.
type Options struct {
	Mailer    Mailer
	Publisher Publisher
	Hanger    Hanger
}

func New(store *callsession.Store, telephony Telephony, cfg Config, opts Options, logger *observability.Logger) *Orchestrator {
	if cfg.RingTimeout <= 0 {
		cfg.RingTimeout = defaultRingTimeout
	}
	if cfg.BridgeTimeout <= 0 {
		cfg.BridgeTimeout = defaultBridgeTimeout
	}
	if cfg.StaffAcceptTimeout <= 0 {
		cfg.StaffAcceptTimeout = 20 * time.Second
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Orchestrator{
		store:     store,
		telephony: telephony,
		mailer:    opts.Mailer,
		publisher: opts.Publisher,
		hanger:    opts.Hanger,
		cfg:       cfg,
		margin:    watchdogMargin,
		logger:    logger,
	}
}

func (o *Orchestrator) transferCtx(ctx context.Context, t *callsession.TransferContext) context.Context {
	return observability.WithFields(observability.WithCall(ctx, t.CallID),
		observability.Field{Key: "transfer_id", Value: t.ID},
	)
}

func (o *Orchestrator) callbackURL(transferID, kind string) (string, error) {
	token, err := signCallbackToken([]byte(o.cfg.Secret), transferID, o.tokenTTL())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/escalation/%s/%s?%s", o.cfg.PublicBaseURL, url.PathEscape(transferID), kind,
		url.Values{"token": {token}}.Encode()), nil
}

func (o *Orchestrator) tokenTTL() time.Duration {
	return o.cfg.RingTimeout + o.cfg.StaffAcceptTimeout + o.cfg.BridgeTimeout + time.Hour
}

// StartTransfer places the staff call. It returns once the call is placed; the
// rest of the hand-off is driven by provider callbacks and a local watchdog.
func (o *Orchestrator) StartTransfer(ctx context.Context, session *callsession.Session, summary string) (*callsession.TransferContext, error) {
	if o.telephony == nil || o.cfg.StaffPhone == "" || o.cfg.PublicBaseURL == "" {
		return nil, ErrNotConfigured
	}
	if session.TransferPending() {
		return nil, ErrTransferInProgress
	}

	id := uuid.NewString()
	t := callsession.NewTransferContext(id, session.CallID, "handoff-"+id, session.CallerPhone, o.cfg.StaffPhone, summary)
	t.SetGuestCallSid(session.GuestCallSid())
	if err := o.store.AttachTransfer(session.CallID, t); err != nil {
		return nil, err
	}
	ctx = o.transferCtx(ctx, t)

	acceptURL, err := o.callbackURL(id, "accept")
	if err != nil {
		o.failSilently(ctx, t, "callback signing failed")
		return t, err
	}
	statusURL, err := o.callbackURL(id, "status")
	if err != nil {
		o.failSilently(ctx, t, "callback signing failed")
		return t, err
	}

	language := sayLanguage(o.cfg.StaffLanguage)
	prompt, err := twilio.StaffPromptTwiML(twilio.SummaryForStaff(t.GuestPhone, summary), language, acceptURL,
		int(o.cfg.StaffAcceptTimeout/time.Second))
	if err != nil {
		o.failSilently(ctx, t, "failed to build staff prompt")
		return t, err
	}

	if err := o.advance(ctx, t, callsession.TransferCallingStaff); err != nil {
		return t, err
	}
	sid, err := o.telephony.CreateCall(ctx, twilio.OutboundCall{
		To:             o.cfg.StaffPhone,
		TwiML:          prompt,
		StatusCallback: statusURL,
		TimeoutSeconds: int(o.cfg.RingTimeout / time.Second),
	})
	if err != nil {
		o.logger.Error(ctx, "failed to call staff", err)
		o.failSilently(ctx, t, "staff call could not be placed")
		return t, fmt.Errorf("failed to call staff: %w", err)
	}
	t.SetStaffCallSid(sid)
	o.logger.Info(ctx, "calling staff")

	go o.watch(context.WithoutCancel(ctx), t)
	return t, nil
}

// watch fails the transfer when staff never accepts or the bridge never forms.
func (o *Orchestrator) watch(ctx context.Context, t *callsession.TransferContext) {
	accept := time.NewTimer(o.cfg.RingTimeout + o.cfg.StaffAcceptTimeout + o.margin)
	defer accept.Stop()
	select {
	case <-t.Done():
		return
	case <-accept.C:
	}
	if t.Status() == callsession.TransferCallingStaff {
		o.fail(ctx, t, "staff did not accept in time")
		return
	}

	bridge := time.NewTimer(o.cfg.BridgeTimeout)
	defer bridge.Stop()
	select {
	case <-t.Done():
	case <-bridge.C:
		o.fail(ctx, t, "conference did not form in time")
	}
}

// HandleStaffAccept answers the staff leg's Gather action. Any digit accepts.
// The returned TwiML is what the staff leg runs next.
func (o *Orchestrator) HandleStaffAccept(ctx context.Context, transferID, token, digits string) (string, error) {
	t, session, err := o.lookup(transferID, token)
	if err != nil {
		return "", err
	}
	ctx = o.transferCtx(ctx, t)
	language := sayLanguage(o.cfg.StaffLanguage)

	if digits == "" {
		return twilio.SayTwiML(goodbye(language), language)
	}
	if err := o.advance(ctx, t, callsession.TransferStaffReady); err != nil {
		// Too late: the watchdog or a status callback already gave up.
		return twilio.SayTwiML(goodbye(language), language)
	}

	conferenceURL, err := o.callbackURL(t.ID, "conference")
	if err != nil {
		o.fail(ctx, t, "callback signing failed")
		return "", err
	}
	staffTwiML, err := twilio.ConferenceTwiML(t.ConferenceName, twilio.LabelHumanAgent, conferenceURL, true)
	if err != nil {
		o.fail(ctx, t, "failed to build conference")
		return "", err
	}

	go o.joinGuest(context.WithoutCancel(ctx), t, session, conferenceURL)
	return staffTwiML, nil
}

// joinGuest moves the guest into the conference: redirecting the live leg when
// its sid is known, otherwise calling the guest back.
func (o *Orchestrator) joinGuest(ctx context.Context, t *callsession.TransferContext, session *callsession.Session, conferenceURL string) {
	if err := o.advance(ctx, t, callsession.TransferGuestJoining); err != nil {
		return
	}
	guestTwiML, err := twilio.ConferenceTwiML(t.ConferenceName, twilio.LabelGuest, conferenceURL, true)
	if err != nil {
		o.fail(ctx, t, "failed to build conference")
		return
	}

	if sid := t.GuestCallSid(); sid != "" {
		err := o.telephony.RedirectCall(ctx, sid, guestTwiML)
		if err == nil {
			o.logger.Info(ctx, "guest leg redirected into conference")
			return
		}
		o.logger.WarnWithError(ctx, "guest redirect failed, calling guest back", err)
	}

	if t.GuestPhone == "" {
		o.fail(ctx, t, "guest number unknown")
		return
	}
	sid, err := o.telephony.CreateCall(ctx, twilio.OutboundCall{
		To:             t.GuestPhone,
		TwiML:          guestTwiML,
		TimeoutSeconds: int(o.cfg.RingTimeout / time.Second),
	})
	if err != nil {
		o.logger.Error(ctx, "failed to call guest back", err)
		o.fail(ctx, t, "guest could not be reached")
		return
	}
	t.SetGuestCallSid(sid)
	if session != nil && o.hanger != nil {
		// The guest now has a second call; end the one the AI is on.
		if err := o.hanger.Hangup(ctx, session); err != nil {
			o.logger.WarnWithError(ctx, "failed to end original guest call", err)
		}
	}
}

// StaffStatus is a status callback for the staff leg.
type StaffStatus struct {
	CallSid    string
	CallStatus string
}

// HandleStaffStatus fails the transfer when the staff leg ends before accepting.
func (o *Orchestrator) HandleStaffStatus(ctx context.Context, transferID, token string, status StaffStatus) error {
	t, _, err := o.lookup(transferID, token)
	if err != nil {
		return err
	}
	ctx = observability.WithFields(o.transferCtx(ctx, t), observability.Field{Key: "call_status", Value: status.CallStatus})

	switch status.CallStatus {
	case "completed", "no-answer", "busy", "failed", "canceled":
		if t.Status() == callsession.TransferCallingStaff {
			o.fail(ctx, t, "staff "+status.CallStatus)
		}
	default:
		o.logger.Debug(ctx, "staff leg status")
	}
	return nil
}

// ConferenceEvent is a conference status callback.
type ConferenceEvent struct {
	Event            string
	ConferenceSid    string
	CallSid          string
	ParticipantLabel string
}

// HandleConferenceEvent bridges once both humans are present and ends the
// transfer when the conference closes early.
func (o *Orchestrator) HandleConferenceEvent(ctx context.Context, transferID, token string, event ConferenceEvent) error {
	t, session, err := o.lookup(transferID, token)
	if err != nil {
		return err
	}
	ctx = observability.WithFields(o.transferCtx(ctx, t), observability.Field{Key: "conference_event", Value: event.Event})

	switch event.Event {
	case "participant-join", "conference-start":
		return o.tryBridge(ctx, t, session)
	case "conference-end":
		if t.Status() != callsession.TransferBridged {
			o.fail(ctx, t, "conference ended before both parties joined")
		}
	}
	return nil
}

// tryBridge removes every AI participant and only then enters Bridged.
func (o *Orchestrator) tryBridge(ctx context.Context, t *callsession.TransferContext, session *callsession.Session) error {
	if t.Status() != callsession.TransferGuestJoining {
		return nil
	}
	conferenceSid, participants, err := o.telephony.Participants(ctx, t.ConferenceName)
	if err != nil {
		if errors.Is(err, twilio.ErrConferenceNotFound) {
			return nil
		}
		o.logger.WarnWithError(ctx, "failed to list conference participants", err)
		return err
	}

	var staffPresent, guestPresent bool
	var ai []twilio.Participant
	for _, p := range participants {
		switch {
		case p.Label == twilio.LabelHumanAgent:
			staffPresent = true
		case p.Label == twilio.LabelGuest || (p.CallSid != "" && p.CallSid == t.GuestCallSid()):
			guestPresent = true
		case p.Label == twilio.LabelAIAgent:
			ai = append(ai, p)
		}
	}
	if !staffPresent || !guestPresent {
		return nil
	}

	for _, p := range ai {
		err := o.telephony.RemoveParticipant(ctx, conferenceSid, p.CallSid)
		if errors.Is(err, twilio.ErrParticipantGone) {
			o.logger.Debug(ctx, "AI participant already left the conference")
			continue
		}
		if err != nil {
			o.logger.Error(ctx, "failed to remove AI participant", err)
			o.fail(ctx, t, "AI participant could not be removed")
			return err
		}
	}
	t.MarkAIParticipantRemoved()

	if err := o.advance(ctx, t, callsession.TransferBridged); err != nil {
		return nil
	}
	o.logger.Info(ctx, "guest and staff bridged")
	o.store.Teardown(ctx, t.CallID, "bridged to staff")
	return nil
}

func (o *Orchestrator) lookup(transferID, token string) (*callsession.TransferContext, *callsession.Session, error) {
	if err := verifyCallbackToken([]byte(o.cfg.Secret), transferID, token); err != nil {
		return nil, nil, err
	}
	t, session, ok := o.store.Transfer(transferID)
	if !ok {
		return nil, nil, ErrTransferNotFound
	}
	return t, session, nil
}

func (o *Orchestrator) advance(ctx context.Context, t *callsession.TransferContext, to callsession.TransferStatus) error {
	if err := t.Advance(to); err != nil {
		o.logger.WarnWithError(ctx, "transfer transition refused", err)
		return err
	}
	o.publish(ctx, t)
	return nil
}

// fail marks the transfer Failed once, keeps the guest with the AI and tells
// the AI and the manager.
func (o *Orchestrator) fail(ctx context.Context, t *callsession.TransferContext, reason string) {
	o.finishFailed(ctx, t, reason, true)
}

// failSilently is used while the tool call is still waiting: its result tells the AI.
func (o *Orchestrator) failSilently(ctx context.Context, t *callsession.TransferContext, reason string) {
	o.finishFailed(ctx, t, reason, false)
}

func (o *Orchestrator) finishFailed(ctx context.Context, t *callsession.TransferContext, reason string, tellAI bool) {
	if !t.Fail(reason) {
		return
	}
	o.logger.Warn(observability.WithFields(ctx, observability.Field{Key: "reason", Value: reason}), "staff hand-off failed")
	o.publish(ctx, t)

	if sid := t.StaffCallSid(); sid != "" && o.telephony != nil {
		if err := o.telephony.EndCall(ctx, sid); err != nil && !errors.Is(err, twilio.ErrCallRejected) {
			o.logger.WarnWithError(ctx, "failed to end staff leg", err)
		}
	}

	if session, ok := o.store.Get(t.CallID); ok && tellAI && !session.IsClosed() {
		if ai := session.AI(); ai != nil && ai.Alive() {
			if err := ai.InjectSystemMessage(tools.TransferFailedMessage(session.Language(), reason)); err != nil {
				o.logger.WarnWithError(ctx, "failed to inject hand-off failure", err)
			} else if err := ai.RequestResponse(); err != nil {
				o.logger.WarnWithError(ctx, "failed to request response after hand-off failure", err)
			}
		}
	}

	if o.mailer != nil {
		err := o.mailer.NotifyHandoffFailed(ctx, mail.HandoffFailure{
			CallID:         t.CallID,
			TransferID:     t.ID,
			GuestPhone:     t.GuestPhone,
			StaffPhone:     t.StaffPhone,
			ProblemSummary: t.ProblemSummary,
			Reason:         reason,
			At:             time.Now(),
		})
		if err != nil && !errors.Is(err, mail.ErrNotConfigured) {
			o.logger.WarnWithError(ctx, "failed to mail hand-off failure", err)
		}
	}
}

func (o *Orchestrator) publish(ctx context.Context, t *callsession.TransferContext) {
	if o.publisher == nil {
		return
	}
	event := kafka.NewEvent(kafka.EventTransferChanged, t.CallID, map[string]interface{}{
		"transfer_id": t.ID,
		"status":      string(t.Status()),
		"reason":      t.FailureReason(),
	})
	if err := o.publisher.PublishEvent(ctx, event); err != nil {
		o.logger.WarnWithError(ctx, "failed to publish transfer event", err)
	}
}

// sayLanguage maps a base language to a Twilio <Say> locale.
func sayLanguage(language string) string {
	switch strings.ToLower(language) {
	case "es", "es-es":
		return "es-ES"
	case "fr", "fr-fr":
		return "fr-FR"
	default:
		return "en-US"
	}
}

func goodbye(language string) string {
	switch language {
	case "es-ES":
		return "Gracias. Adiós."
	case "fr-FR":
		return "Merci. Au revoir."
	default:
		return "Thank you. Goodbye."
	}
}

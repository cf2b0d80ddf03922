// Package tools runs the function calls the AI session requests: it buffers
// streamed arguments, validates business tools before they reach the business
// service, and always follows a tool result with a response request.
package tools

//go:generate go run go.uber.org/mock/mockgen@latest -source=orchestrator.go -destination=mocks_test.go -package=tools
//go:generate go run go.uber.org/mock/mockgen@latest -destination=aileg_mock_test.go -package=tools callbridge/internal/callsession AILeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"callbridge/internal/callsession"
	"callbridge/internal/clients/business"
	"callbridge/internal/observability"
)

const defaultHangupConfirmWindow = 5 * time.Second

var ErrNoTerminator = errors.New("no hang-up provider configured")

// Dispatcher performs a business action.
type Dispatcher interface {
	Do(ctx context.Context, action string, data interface{}) (business.Result, error)
}

// Escalator places the staff leg of a hand-off. It returns once the outbound
// call has been placed or has failed to place.
type Escalator interface {
	StartTransfer(ctx context.Context, session *callsession.Session, summary string) (*callsession.TransferContext, error)
}

// Terminator asks the telephony provider to end the guest's call.
type Terminator interface {
	Hangup(ctx context.Context, session *callsession.Session) error
}

type Config struct {
	// HangupGraceDelay lets trailing speech play before the call is ended.
	HangupGraceDelay time.Duration
	// HangupConfirmWindow bounds the wait for the provider to close the call
	// after a successful hang-up request.
	HangupConfirmWindow time.Duration
	SupportedLanguages  []string
}

// Result is the function_call_output sent back to the AI.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Orchestrator struct {
	dispatcher Dispatcher
	escalator  Escalator
	terminator Terminator
	validator  *Validator
	cfg        Config
	logger     *observability.Logger

	wg sync.WaitGroup
}

// New builds an orchestrator. escalator and terminator may be nil when hand-off
// or provider hang-up are unavailable.
func New(dispatcher Dispatcher, escalator Escalator, terminator Terminator, validator *Validator, cfg Config, logger *observability.Logger) *Orchestrator {
	if cfg.HangupConfirmWindow <= 0 {
		cfg.HangupConfirmWindow = defaultHangupConfirmWindow
	}
	return &Orchestrator{
		dispatcher: dispatcher,
		escalator:  escalator,
		terminator: terminator,
		validator:  validator,
		cfg:        cfg,
		logger:     logger,
	}
}

// OnToolArgumentDelta buffers one argument fragment. Fragments for one
// invocation arrive on one socket, so appending keeps them in order.
func (o *Orchestrator) OnToolArgumentDelta(session *callsession.Session, invocationID, fragment string) {
	session.AppendToolArguments(invocationID, fragment)
}

// OnToolCallDone parses the arguments and runs the tool in its own goroutine.
// A second done event for the same invocation is ignored.
func (o *Orchestrator) OnToolCallDone(ctx context.Context, session *callsession.Session, invocationID, name, arguments string) {
	ctx = observability.WithFields(context.WithoutCancel(ctx),
		observability.Field{Key: "call_id", Value: session.CallID},
		observability.Field{Key: "invocation_id", Value: invocationID},
		observability.Field{Key: "tool", Value: name},
	)

	text, ok := session.CompleteToolArguments(invocationID, name, arguments)
	if !ok {
		o.logger.Warn(ctx, "duplicate tool call completion ignored")
		return
	}
	args := parseArguments(text)

	if tracked(name) {
		session.TrackPending(invocationID, name)
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer session.ReleasePending(invocationID)
		o.run(ctx, session, invocationID, name, args)
	}()
}

// Wait blocks until every dispatched tool call has returned.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) run(ctx context.Context, session *callsession.Session, invocationID, name string, args map[string]interface{}) {
	language := session.Language()
	o.logger.Info(ctx, "running tool call")

	switch name {
	case ToolCreateReservation:
		var parsed ReservationArgs
		verr := &ValidationError{}
		bind(args, &parsed, []string{"guests"}, verr)
		if parsed.Phone == "" {
			parsed.Phone = session.CallerPhone
		}
		if schemaErr := o.validator.Reservation(parsed); schemaErr != nil {
			verr.Missing = append(verr.Missing, schemaErr.Missing...)
			verr.Invalid = append(verr.Invalid, schemaErr.Invalid...)
		}
		if !verr.empty() {
			o.reject(ctx, session, invocationID, verr)
			return
		}
		o.dispatch(ctx, session, invocationID, business.ActionCreateReservation, withLanguage(parsed, language))

	case ToolCreateOrder:
		var parsed OrderArgs
		verr := &ValidationError{}
		bind(args, &parsed, []string{"total"}, verr)
		if parsed.Phone == "" {
			parsed.Phone = session.CallerPhone
		}
		if schemaErr := o.validator.Order(parsed); schemaErr != nil {
			verr.Missing = append(verr.Missing, schemaErr.Missing...)
			verr.Invalid = append(verr.Invalid, schemaErr.Invalid...)
		}
		if !verr.empty() {
			o.reject(ctx, session, invocationID, verr)
			return
		}
		o.dispatch(ctx, session, invocationID, business.ActionCreateOrder, withLanguage(parsed, language))

	case ToolGetMenu:
		o.dispatch(ctx, session, invocationID, business.ActionMenuLookup, map[string]interface{}{
			"category": stringArg(args, "category"),
			"language": language,
		})

	case ToolSwitchLanguage:
		o.switchLanguage(ctx, session, invocationID, stringArg(args, "language"))

	case ToolEndCall:
		o.endCall(ctx, session, invocationID)

	case ToolTransferToStaff:
		o.transfer(ctx, session, invocationID, stringArg(args, "summary"))

	default:
		o.respond(ctx, session, invocationID, Result{Success: false, Error: message(language, msgUnknownTool, name)})
	}
}

func withLanguage(args interface{}, language string) map[string]interface{} {
	raw, _ := json.Marshal(args)
	out := map[string]interface{}{}
	_ = json.Unmarshal(raw, &out)
	out["language"] = language
	return out
}

func (o *Orchestrator) reject(ctx context.Context, session *callsession.Session, invocationID string, verr *ValidationError) {
	o.logger.Info(ctx, fmt.Sprintf("tool arguments rejected: %s", verr.Error()))
	o.respond(ctx, session, invocationID, Result{Success: false, Error: verr.Message(session.Language())})
}

func (o *Orchestrator) dispatch(ctx context.Context, session *callsession.Session, invocationID, action string, data interface{}) {
	session.SetToolStatus(invocationID, callsession.InvocationDispatched)
	res, err := o.dispatcher.Do(ctx, action, data)
	if err != nil {
		o.logger.Error(ctx, "business action failed", err)
		o.respond(ctx, session, invocationID, Result{Success: false, Error: message(session.Language(), msgServiceUnavailable)})
		return
	}
	if !res.Success {
		o.respond(ctx, session, invocationID, Result{Success: false, Error: message(session.Language(), msgRejected, res.Error)})
		return
	}
	o.respond(ctx, session, invocationID, Result{Success: true, Data: res.Data})
}

// respond sends one tool result followed by exactly one response request.
func (o *Orchestrator) respond(ctx context.Context, session *callsession.Session, invocationID string, result Result) {
	status := callsession.InvocationCompleted
	if !result.Success {
		status = callsession.InvocationFailed
	}
	defer session.SetToolStatus(invocationID, status)

	ai := session.AI()
	if ai == nil || !ai.Alive() {
		o.logger.Warn(ctx, "AI session gone, dropping tool result")
		return
	}
	output, err := json.Marshal(result)
	if err != nil {
		o.logger.Error(ctx, "failed to marshal tool result", err)
		return
	}
	if err := ai.SendToolResult(invocationID, string(output)); err != nil {
		o.logger.WarnWithError(ctx, "failed to send tool result", err)
		return
	}
	if err := ai.RequestResponse(); err != nil {
		o.logger.WarnWithError(ctx, "failed to request response after tool result", err)
	}
}

func (o *Orchestrator) supported(language string) bool {
	if len(o.cfg.SupportedLanguages) == 0 {
		_, ok := catalogue[language]
		return ok
	}
	for _, l := range o.cfg.SupportedLanguages {
		if baseLanguage(l) == language {
			return true
		}
	}
	return false
}

func (o *Orchestrator) switchLanguage(ctx context.Context, session *callsession.Session, invocationID, requested string) {
	language := baseLanguage(requested)
	if language == "" || !o.supported(language) {
		o.respond(ctx, session, invocationID, Result{
			Success: false,
			Error:   message(session.Language(), msgLanguageUnsupported, requested, strings.Join(o.cfg.SupportedLanguages, ", ")),
		})
		return
	}

	session.SetLanguage(language)
	if ai := session.AI(); ai != nil && ai.Alive() {
		if err := ai.UpdateTranscriptionLanguage(language); err != nil {
			o.logger.WarnWithError(ctx, "failed to update transcription language", err)
		}
	}
	o.respond(ctx, session, invocationID, Result{Success: true, Message: message(language, msgLanguageSwitched, language)})
}

// endCall returns nothing to the AI. After the grace delay it asks the provider
// to hang up and falls back to closing the AI socket.
func (o *Orchestrator) endCall(ctx context.Context, session *callsession.Session, invocationID string) {
	session.SetToolStatus(invocationID, callsession.InvocationDispatched)

	timer := time.NewTimer(o.cfg.HangupGraceDelay)
	select {
	case <-session.Closed():
		timer.Stop()
		session.SetToolStatus(invocationID, callsession.InvocationCompleted)
		return
	case <-timer.C:
	}

	err := ErrNoTerminator
	if o.terminator != nil {
		err = o.terminator.Hangup(ctx, session)
	}
	if err != nil {
		o.logger.WarnWithError(ctx, "provider hang-up failed, closing AI session", err)
		o.closeAI(session, "end_call")
		session.SetToolStatus(invocationID, callsession.InvocationCompleted)
		return
	}

	// A hang-up request is only terminal once the provider closes the call.
	confirm := time.NewTimer(o.cfg.HangupConfirmWindow)
	defer confirm.Stop()
	select {
	case <-session.Closed():
	case <-confirm.C:
		o.logger.Warn(ctx, "hang-up not confirmed by provider, closing AI session")
		o.closeAI(session, "end_call unconfirmed")
	}
	session.SetToolStatus(invocationID, callsession.InvocationCompleted)
}

func (o *Orchestrator) closeAI(session *callsession.Session, reason string) {
	if ai := session.AI(); ai != nil {
		_ = ai.Close(reason)
	}
}

func (o *Orchestrator) transfer(ctx context.Context, session *callsession.Session, invocationID, summary string) {
	language := session.Language()
	if o.escalator == nil {
		o.respond(ctx, session, invocationID, Result{Success: false, Error: message(language, msgTransferUnavailable)})
		return
	}
	if summary == "" {
		summary = "the guest asked to speak with staff"
	}

	session.SetToolStatus(invocationID, callsession.InvocationDispatched)
	transfer, err := o.escalator.StartTransfer(ctx, session, summary)
	if err != nil {
		o.logger.WarnWithError(ctx, "staff hand-off could not start", err)
		o.respond(ctx, session, invocationID, Result{Success: false, Error: message(language, msgTransferUnavailable)})
		return
	}
	o.logger.Info(observability.WithFields(ctx, observability.Field{Key: "transfer_id", Value: transfer.ID}), "staff hand-off started")
	o.respond(ctx, session, invocationID, Result{Success: true, Message: message(language, msgTransferStarted)})
}

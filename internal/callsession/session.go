// Package callsession holds per-call state shared by the telephony leg, the AI
// leg, the tool orchestrator and the escalation orchestrator.
package callsession

//go:generate go run go.uber.org/mock/mockgen@latest -source=session.go -destination=mocks_test.go -package=callsession

import (
	"strings"
	"sync"
	"time"
)

// Mode is how the call's audio reaches the AI.
type Mode string

const (
	// ModeSIP: the AI provider terminates the SIP call; we hold a sideband control socket only.
	ModeSIP Mode = "sip"
	// ModeMediaStream: we bridge the provider media stream and the AI socket ourselves.
	ModeMediaStream Mode = "media_stream"
)

// State is the telephony-side lifecycle of a call.
type State string

const (
	StateIncoming   State = "incoming"
	StateAccepting  State = "accepting"
	StateAccepted   State = "accepted"
	StateStreamOpen State = "stream_open"
	StateClosed     State = "closed"
)

// TransferState is the coarse hand-off state exposed on the session.
type TransferState string

const (
	TransferNone         TransferState = "none"
	TransferStateCalling TransferState = "staff_calling"
	TransferStateReady   TransferState = "staff_ready"
	TransferStateBridged TransferState = "bridged"
)

// InvocationStatus tracks one tool call from first fragment to result.
type InvocationStatus string

const (
	InvocationStreaming  InvocationStatus = "streaming"
	InvocationReady      InvocationStatus = "ready"
	InvocationDispatched InvocationStatus = "dispatched"
	InvocationCompleted  InvocationStatus = "completed"
	InvocationFailed     InvocationStatus = "failed"
)

// AILeg is the conversational AI socket owned by a session.
type AILeg interface {
	Alive() bool
	Close(reason string) error
	SendAudio(payload []byte) error
	SendToolResult(invocationID, output string) error
	RequestResponse() error
	UpdateTranscriptionLanguage(language string) error
	InjectSystemMessage(text string) error
}

// TelephonyLeg is the caller-side media socket owned by a session.
type TelephonyLeg interface {
	Alive() bool
	Close(reason string) error
	SendAudio(mulaw []byte) error
}

// ToolInvocation is one function call requested by the AI.
type ToolInvocation struct {
	CallID       string
	InvocationID string
	Name         string
	Status       InvocationStatus

	arguments strings.Builder
}

// Session is the mutable state of one phone call.
type Session struct {
	CallID      string
	CallerPhone string
	Mode        Mode
	CreatedAt   time.Time

	mu           sync.Mutex
	language     string
	state        State
	guestCallSid string
	invocations  map[string]*ToolInvocation
	pending      map[string]string
	transfer     *TransferContext
	ai           AILeg
	telephony    TelephonyLeg

	closeOnce sync.Once
	closed    chan struct{}
	wake      chan struct{}

	telephonyHeld bool

	removing   bool
	removeOnce sync.Once
	removed    chan struct{}
}

func newSession(callID, callerPhone string, mode Mode, language string) *Session {
	return &Session{
		CallID:      callID,
		CallerPhone: callerPhone,
		Mode:        mode,
		CreatedAt:   time.Now(),
		language:    language,
		state:       StateIncoming,
		invocations: make(map[string]*ToolInvocation),
		pending:     make(map[string]string),
		closed:      make(chan struct{}),
		wake:        make(chan struct{}, 1),
		removed:     make(chan struct{}),
	}
}

func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transition moves the telephony state forward from an expected state.
// Any state may move to Closed.
func (s *Session) Transition(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return false
	}
	if to != StateClosed && s.state != from {
		return false
	}
	s.state = to
	return true
}

func (s *Session) GuestCallSid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guestCallSid
}

func (s *Session) SetGuestCallSid(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guestCallSid = sid
}

func (s *Session) AttachAI(leg AILeg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ai = leg
}

// AI returns the AI leg, or nil before it is attached.
func (s *Session) AI() AILeg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ai
}

func (s *Session) AttachTelephony(leg TelephonyLeg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.telephony = leg
}

// Telephony returns the media leg. It stays nil in SIP mode.
func (s *Session) Telephony() TelephonyLeg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telephony
}

// Transfer returns the hand-off attached to this call, if any.
func (s *Session) Transfer() *TransferContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfer
}

// TransferState folds the transfer's detailed status into the session view.
func (s *Session) TransferState() TransferState {
	t := s.Transfer()
	if t == nil {
		return TransferNone
	}
	switch t.Status() {
	case TransferScheduled, TransferCallingStaff:
		return TransferStateCalling
	case TransferStaffReady, TransferGuestJoining:
		return TransferStateReady
	case TransferBridged:
		return TransferStateBridged
	default:
		return TransferNone
	}
}

// TransferPending reports whether a hand-off is still forming.
func (s *Session) TransferPending() bool {
	t := s.Transfer()
	return t != nil && !t.Status().Terminal()
}

// AppendToolArguments buffers one streamed argument fragment in arrival order.
func (s *Session) AppendToolArguments(invocationID, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invocations[invocationID]
	if !ok {
		inv = &ToolInvocation{CallID: s.CallID, InvocationID: invocationID, Status: InvocationStreaming}
		s.invocations[invocationID] = inv
	}
	if inv.Status == InvocationStreaming {
		inv.arguments.WriteString(fragment)
	}
}

// CompleteToolArguments closes the argument stream for an invocation and returns the
// text to parse. Buffered fragments win over the done event's own arguments.
// It returns false when the invocation was already completed once.
func (s *Session) CompleteToolArguments(invocationID, name, final string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invocations[invocationID]
	if !ok {
		inv = &ToolInvocation{CallID: s.CallID, InvocationID: invocationID, Status: InvocationStreaming}
		s.invocations[invocationID] = inv
	}
	if inv.Status != InvocationStreaming {
		return "", false
	}
	inv.Name = name
	inv.Status = InvocationReady
	if inv.arguments.Len() > 0 {
		return inv.arguments.String(), true
	}
	return final, true
}

// SetToolStatus records dispatch progress for an invocation.
func (s *Session) SetToolStatus(invocationID string, status InvocationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.invocations[invocationID]; ok {
		inv.Status = status
	}
}

// ToolStatus returns the status of an invocation, or "" when unknown.
func (s *Session) ToolStatus(invocationID string) InvocationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv, ok := s.invocations[invocationID]; ok {
		return inv.Status
	}
	return ""
}

// TrackPending marks a user-visible tool call as in flight.
func (s *Session) TrackPending(invocationID, name string) {
	s.mu.Lock()
	s.pending[invocationID] = name
	s.mu.Unlock()
}

// ReleasePending removes a tool call from the in-flight set.
func (s *Session) ReleasePending(invocationID string) {
	s.mu.Lock()
	delete(s.pending, invocationID)
	s.mu.Unlock()
	s.poke()
}

func (s *Session) PendingToolCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	return ids
}

// Closed is closed when the session legs have been torn down.
func (s *Session) Closed() <-chan struct{} {
	return s.closed
}

func (s *Session) IsClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// attachTransfer sets the hand-off unless one is still forming.
func (s *Session) attachTransfer(t *TransferContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transfer != nil && !s.transfer.Status().Terminal() {
		return ErrTransferInProgress
	}
	t.setOnChange(s.poke)
	s.transfer = t
	return nil
}

// claimRemoval returns true for the one caller that owns removing the state.
func (s *Session) claimRemoval() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removing {
		return false
	}
	s.removing = true
	return true
}

func (s *Session) markRemoved() {
	s.removeOnce.Do(func() { close(s.removed) })
}

// settled reports whether nothing holds the session state open any longer.
func (s *Session) settled() bool {
	if s.TransferPending() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) == 0
}

func (s *Session) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// closeLegs closes both sockets exactly once. With holdTelephony the guest's
// media leg stays up until releaseTelephony so a forming hand-off can still
// redirect the guest.
func (s *Session) closeLegs(reason string, holdTelephony bool) []error {
	var errs []error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		ai, telephony := s.ai, s.telephony
		s.telephonyHeld = holdTelephony && telephony != nil
		s.mu.Unlock()

		if ai != nil {
			if err := ai.Close(reason); err != nil {
				errs = append(errs, err)
			}
		}
		if telephony != nil && !holdTelephony {
			if err := telephony.Close(reason); err != nil {
				errs = append(errs, err)
			}
		}
		close(s.closed)
	})
	return errs
}

// releaseTelephony closes a media leg held open by closeLegs.
func (s *Session) releaseTelephony(reason string) error {
	s.mu.Lock()
	telephony, held := s.telephony, s.telephonyHeld
	s.telephonyHeld = false
	s.mu.Unlock()
	if !held {
		return nil
	}
	return telephony.Close(reason)
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invocations = make(map[string]*ToolInvocation)
	s.pending = make(map[string]string)
}

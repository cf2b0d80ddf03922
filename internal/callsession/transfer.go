package callsession

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrInvalidTransition   = errors.New("invalid transfer transition")
	ErrAIParticipantActive = errors.New("ai participant has not been removed from the conference")
	ErrTransferInProgress  = errors.New("a hand-off is already in progress for this call")
)

// TransferStatus is the escalation progress of one hand-off.
type TransferStatus string

const (
	TransferScheduled    TransferStatus = "scheduled"
	TransferCallingStaff TransferStatus = "calling_staff"
	TransferStaffReady   TransferStatus = "staff_ready"
	TransferGuestJoining TransferStatus = "guest_joining"
	TransferBridged      TransferStatus = "bridged"
	TransferFailed       TransferStatus = "failed"
)

var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferScheduled:    {TransferCallingStaff},
	TransferCallingStaff: {TransferStaffReady},
	TransferStaffReady:   {TransferGuestJoining},
	TransferGuestJoining: {TransferBridged},
}

// Terminal reports whether no further transition is possible.
func (s TransferStatus) Terminal() bool {
	return s == TransferBridged || s == TransferFailed
}

// TransferContext is the escalation metadata owned by a CallSession.
type TransferContext struct {
	ID             string
	CallID         string
	ConferenceName string
	GuestPhone     string
	StaffPhone     string
	ProblemSummary string
	CreatedAt      time.Time

	mu                   sync.Mutex
	status               TransferStatus
	staffCallSid         string
	guestCallSid         string
	aiParticipantRemoved bool
	failureReason        string
	onChange             func()
	done                 chan struct{}
}

// NewTransferContext returns a context in the Scheduled state.
func NewTransferContext(id, callID, conferenceName, guestPhone, staffPhone, summary string) *TransferContext {
	return &TransferContext{
		ID:             id,
		CallID:         callID,
		ConferenceName: conferenceName,
		GuestPhone:     guestPhone,
		StaffPhone:     staffPhone,
		ProblemSummary: summary,
		CreatedAt:      time.Now(),
		status:         TransferScheduled,
		done:           make(chan struct{}),
	}
}

func (t *TransferContext) Status() TransferStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Done is closed once the transfer reaches Bridged or Failed.
func (t *TransferContext) Done() <-chan struct{} {
	return t.done
}

// Advance moves the transfer one step forward. Bridged is refused until the
// AI participant has been removed from the conference.
func (t *TransferContext) Advance(to TransferStatus) error {
	t.mu.Lock()
	from := t.status
	allowed := false
	for _, next := range transferTransitions[from] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to == TransferBridged && !t.aiParticipantRemoved {
		t.mu.Unlock()
		return ErrAIParticipantActive
	}
	t.status = to
	notify := t.settleLocked()
	t.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

// Fail moves the transfer to Failed. It reports false if the transfer had already finished.
func (t *TransferContext) Fail(reason string) bool {
	t.mu.Lock()
	if t.status.Terminal() {
		t.mu.Unlock()
		return false
	}
	t.status = TransferFailed
	t.failureReason = reason
	notify := t.settleLocked()
	t.mu.Unlock()

	if notify != nil {
		notify()
	}
	return true
}

func (t *TransferContext) settleLocked() func() {
	if t.status.Terminal() {
		close(t.done)
	}
	return t.onChange
}

func (t *TransferContext) FailureReason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failureReason
}

func (t *TransferContext) SetStaffCallSid(sid string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staffCallSid = sid
}

func (t *TransferContext) StaffCallSid() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.staffCallSid
}

func (t *TransferContext) SetGuestCallSid(sid string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.guestCallSid = sid
}

func (t *TransferContext) GuestCallSid() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.guestCallSid
}

// MarkAIParticipantRemoved records that no AI-labelled participant remains in the conference.
func (t *TransferContext) MarkAIParticipantRemoved() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aiParticipantRemoved = true
}

func (t *TransferContext) AIParticipantRemoved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aiParticipantRemoved
}

func (t *TransferContext) setOnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

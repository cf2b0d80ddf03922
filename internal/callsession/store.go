package callsession

import (
	"context"
	"errors"
	"sync"
	"time"

	"callbridge/internal/observability"
)

var ErrSessionNotFound = errors.New("call session not found")

// Store is the process-wide registry of live calls. It is created once by the
// process root and passed to every component that needs call state.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	transfers map[string]*TransferContext

	ledger      AcceptLedger
	graceWindow time.Duration
	logger      *observability.Logger
}

// NewStore creates a store. graceWindow bounds how long teardown keeps call state
// alive while a hand-off or a user-visible tool call is still in flight.
func NewStore(ledger AcceptLedger, graceWindow time.Duration, logger *observability.Logger) *Store {
	if ledger == nil {
		ledger = NewMemoryLedger(time.Hour)
	}
	return &Store{
		sessions:    make(map[string]*Session),
		transfers:   make(map[string]*TransferContext),
		ledger:      ledger,
		graceWindow: graceWindow,
		logger:      logger,
	}
}

// Ledger returns the accept dedup ledger.
func (s *Store) Ledger() AcceptLedger {
	return s.ledger
}

// Create registers a new session. When the call id is already known the existing
// session is returned with created=false.
func (s *Store) Create(callID, callerPhone string, mode Mode, language string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[callID]; ok {
		return existing, false
	}
	session := newSession(callID, callerPhone, mode, language)
	s.sessions[callID] = session
	return session, true
}

func (s *Store) Get(callID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[callID]
	return session, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// AttachTransfer binds a hand-off to its call and indexes it by transfer id for
// provider callbacks. It fails with ErrTransferInProgress while another hand-off
// on the same call is still forming.
func (s *Store) AttachTransfer(callID string, transfer *TransferContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[callID]
	if !ok {
		return ErrSessionNotFound
	}
	if err := session.attachTransfer(transfer); err != nil {
		return err
	}
	s.transfers[transfer.ID] = transfer
	return nil
}

// Transfer looks up a hand-off by id together with its owning session.
func (s *Store) Transfer(transferID string) (*TransferContext, *Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transfer, ok := s.transfers[transferID]
	if !ok {
		return nil, nil, false
	}
	return transfer, s.sessions[transfer.CallID], true
}

// Teardown closes both legs of a call once. Removal of the call state is deferred
// while a hand-off is forming or a user-visible tool call is pending, bounded by
// the grace window. The returned channel closes once the state is removed.
func (s *Store) Teardown(ctx context.Context, callID, reason string) <-chan struct{} {
	session, ok := s.Get(callID)
	if !ok {
		removed := make(chan struct{})
		close(removed)
		return removed
	}

	ctx = observability.WithFields(observability.WithCall(ctx, callID),
		observability.Field{Key: "teardown_reason", Value: reason},
	)
	for _, err := range session.closeLegs(reason, session.TransferPending()) {
		s.logger.WarnWithError(ctx, "failed to close call leg", err)
	}

	// Only the first caller waits; later ones share its result.
	if !session.claimRemoval() {
		return session.removed
	}

	if session.settled() {
		s.remove(ctx, session)
		return session.removed
	}

	s.logger.Info(ctx, "deferring call state removal while hand-off or tool calls settle")
	go func() {
		timer := time.NewTimer(s.graceWindow)
		defer timer.Stop()
		for !session.settled() {
			select {
			case <-session.wake:
			case <-timer.C:
				s.logger.Warn(ctx, "grace window elapsed before call state settled")
				s.remove(ctx, session)
				return
			}
		}
		s.remove(ctx, session)
	}()
	return session.removed
}

func (s *Store) remove(ctx context.Context, session *Session) {
	s.mu.Lock()
	if current, ok := s.sessions[session.CallID]; ok && current == session {
		delete(s.sessions, session.CallID)
	}
	if t := session.Transfer(); t != nil {
		delete(s.transfers, t.ID)
	}
	s.mu.Unlock()

	if err := session.releaseTelephony("call state removed"); err != nil {
		s.logger.WarnWithError(ctx, "failed to close held media leg", err)
	}
	session.clear()
	session.markRemoved()
	s.logger.Info(ctx, "call state removed")
}

// CloseAll tears down every live call. Used at shutdown.
func (s *Store) CloseAll(ctx context.Context, reason string) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.Teardown(ctx, id, reason)
	}
}

package callsession

import (
	"context"
	"sync"
	"time"
)

// AcceptLedger records which call ids have been claimed for acceptance so
// repeated incoming-call webhooks are answered without a second accept.
type AcceptLedger interface {
	// Claim returns true for the first caller to claim callID.
	Claim(ctx context.Context, callID string) (bool, error)
	// Release forgets a claim so a provider retry can accept again.
	Release(ctx context.Context, callID string) error
}

// MemoryLedger is a process-local AcceptLedger with expiry.
type MemoryLedger struct {
	mu     sync.Mutex
	ttl    time.Duration
	claims map[string]time.Time
	now    func() time.Time
}

func NewMemoryLedger(ttl time.Duration) *MemoryLedger {
	return &MemoryLedger{ttl: ttl, claims: make(map[string]time.Time), now: time.Now}
}

func (l *MemoryLedger) Claim(_ context.Context, callID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for id, expires := range l.claims {
		if now.After(expires) {
			delete(l.claims, id)
		}
	}
	if _, ok := l.claims[callID]; ok {
		return false, nil
	}
	l.claims[callID] = now.Add(l.ttl)
	return true, nil
}

func (l *MemoryLedger) Release(_ context.Context, callID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claims, callID)
	return nil
}

// TieredLedger checks a local ledger first and then a shared one, so replicas
// behind one webhook URL accept each call once.
type TieredLedger struct {
	Local  AcceptLedger
	Shared AcceptLedger
}

func (l TieredLedger) Claim(ctx context.Context, callID string) (bool, error) {
	first, err := l.Local.Claim(ctx, callID)
	if err != nil || !first {
		return first, err
	}
	if l.Shared == nil {
		return true, nil
	}
	first, err = l.Shared.Claim(ctx, callID)
	if err != nil || !first {
		_ = l.Local.Release(ctx, callID)
		if err != nil {
			return false, err
		}
	}
	return first, nil
}

func (l TieredLedger) Release(ctx context.Context, callID string) error {
	if l.Shared != nil {
		if err := l.Shared.Release(ctx, callID); err != nil {
			return err
		}
	}
	return l.Local.Release(ctx, callID)
}

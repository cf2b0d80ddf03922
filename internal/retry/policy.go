// Package retry holds the single attempt/fallback policy used for every
// outbound call to an external collaborator.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callbridge/internal/observability"
)

var ErrExhausted = errors.New("all targets failed")

// Target is one endpoint the policy may try.
type Target struct {
	Name string
	Do   func(ctx context.Context) error
}

// Policy bounds attempts per target and decides which errors move on to the next try.
// Non-retryable errors stop the run immediately: the target answered, so trying a
// fallback could duplicate a side effect on a non-idempotent collaborator.
type Policy struct {
	AttemptsPerTarget int
	Backoff           time.Duration
	Retryable         func(error) bool
	Logger            *observability.Logger
}

// SingleFallback is the collaborator policy: one attempt on the primary, one on the fallback.
func SingleFallback(logger *observability.Logger, retryable func(error) bool) Policy {
	return Policy{AttemptsPerTarget: 1, Retryable: retryable, Logger: logger}
}

// Run tries targets in order and returns the name of the one that succeeded.
func (p Policy) Run(ctx context.Context, targets ...Target) (string, error) {
	attempts := p.AttemptsPerTarget
	if attempts <= 0 {
		attempts = 1
	}

	var errs []error
	for _, target := range targets {
		if target.Do == nil {
			continue
		}
		for attempt := 1; attempt <= attempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return "", errors.Join(append(errs, err)...)
			}

			err := target.Do(ctx)
			if err == nil {
				return target.Name, nil
			}
			errs = append(errs, fmt.Errorf("%s attempt %d: %w", target.Name, attempt, err))

			if p.Retryable != nil && !p.Retryable(err) {
				return "", errors.Join(errs...)
			}
			if p.Logger != nil {
				p.Logger.WarnWithError(observability.WithFields(ctx,
					observability.Field{Key: "target", Value: target.Name},
					observability.Field{Key: "attempt", Value: attempt},
				), "outbound call failed", err)
			}

			if attempt < attempts && p.Backoff > 0 {
				select {
				case <-ctx.Done():
					return "", errors.Join(append(errs, ctx.Err())...)
				case <-time.After(p.Backoff):
				}
			}
		}
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("%w: no targets configured", ErrExhausted)
	}
	return "", fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
}

package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BreakerStore holds the shared breaker counters. The production
// implementation is Redis-backed so several instances trip together; an
// in-memory store covers single-instance deployments and tests.
type BreakerStore interface {
	// Failures returns the current failure count inside the window
	Failures(ctx context.Context) (int, error)

	// RecordFailure increments the failure count, starting the cooldown
	// window on the first failure, and returns the new count
	RecordFailure(ctx context.Context, window time.Duration) (int, error)

	// Reset clears the failure count
	Reset(ctx context.Context) error
}

// Breaker is a failure-count circuit breaker over the notification
// channel. After threshold failures within the cooldown window, attempts
// short-circuit until the window expires or a send succeeds.
type Breaker struct {
	store     BreakerStore
	threshold int
	cooldown  time.Duration
	logger    *zap.Logger
}

// NewBreaker creates a new Breaker
func NewBreaker(store BreakerStore, threshold int, cooldown time.Duration, logger *zap.Logger) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 5 * time.Minute
	}
	return &Breaker{
		store:     store,
		threshold: threshold,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// Open reports whether the breaker is currently tripped. A store error
// counts as closed: losing breaker state must not block deliveries.
func (b *Breaker) Open(ctx context.Context) bool {
	failures, err := b.store.Failures(ctx)
	if err != nil {
		b.logger.Warn("Breaker state unavailable, treating as closed", zap.Error(err))
		return false
	}
	return failures >= b.threshold
}

// RecordFailure notes one delivery failure
func (b *Breaker) RecordFailure(ctx context.Context) {
	count, err := b.store.RecordFailure(ctx, b.cooldown)
	if err != nil {
		b.logger.Warn("Failed to record breaker failure", zap.Error(err))
		return
	}
	if count == b.threshold {
		b.logger.Warn("Notification channel breaker opened",
			zap.Int("failures", count),
			zap.Duration("cooldown", b.cooldown),
		)
	}
}

// RecordSuccess resets the breaker after a successful delivery
func (b *Breaker) RecordSuccess(ctx context.Context) {
	if err := b.store.Reset(ctx); err != nil {
		b.logger.Warn("Failed to reset breaker", zap.Error(err))
	}
}

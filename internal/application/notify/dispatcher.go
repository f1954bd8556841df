// Package notify delivers payment receipts to customers after their
// transaction has committed. Delivery is strictly best-effort: no outcome
// here may influence the ledger write that triggered it.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/i18n"
	"go.uber.org/zap"
)

// Outcome classifies one dispatch attempt
type Outcome string

const (
	// OutcomeSent means the channel accepted the message
	OutcomeSent Outcome = "SENT"
	// OutcomeSkipped means no delivery was attempted (no phone on file)
	OutcomeSkipped Outcome = "SKIPPED"
	// OutcomeFailed means delivery was attempted or short-circuited and
	// did not go through
	OutcomeFailed Outcome = "FAILED"
)

// Channel is the delivery port. Infrastructure provides an SMS gateway
// client; tests provide fakes.
type Channel interface {
	Send(ctx context.Context, phone, message string) error
}

// Dispatcher sends localized payment receipts through a channel guarded
// by a circuit breaker.
type Dispatcher struct {
	channel Channel
	breaker *Breaker
	timeout time.Duration
	logger  *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(channel Channel, breaker *Breaker, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		channel: channel,
		breaker: breaker,
		timeout: timeout,
		logger:  logger,
	}
}

// DispatchPayment sends a payment receipt for a committed PAYMENT
// transaction. Callers must not invoke it for credits. The returned
// outcome is informational; errors never propagate.
func (d *Dispatcher) DispatchPayment(ctx context.Context, owner *ledger.Owner, customer *ledger.Customer, tx *ledger.Transaction) Outcome {
	log := d.logger.With(
		zap.String("transaction_id", tx.ID.String()),
		zap.String("customer_id", customer.ID.String()),
	)

	if !customer.HasPhone() {
		log.Info("Notification skipped, customer has no phone on file")
		return OutcomeSkipped
	}

	if d.breaker.Open(ctx) {
		log.Warn("Notification short-circuited, channel breaker is open")
		return OutcomeFailed
	}

	tag := customer.LanguageOrDefault(owner.LanguageOrDefault())
	message := i18n.PaymentReceipt(tag, customer.Name, tx.Amount, tx.BalanceAfter)

	// The dispatch budget is independent of the request that produced
	// the transaction.
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.channel.Send(sendCtx, customer.Phone, message); err != nil {
		d.breaker.RecordFailure(ctx)
		log.Error("Notification delivery failed",
			zap.String("error_kind", classify(err)),
			zap.String("language", tag),
			zap.Error(err),
		)
		return OutcomeFailed
	}

	d.breaker.RecordSuccess(ctx)
	log.Info("Notification sent", zap.String("language", tag))
	return OutcomeSent
}

func classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "channel_error"
	}
}

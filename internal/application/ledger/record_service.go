package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/domain/shared"
	"github.com/voiceledger/backend/internal/infrastructure/telemetry"
)

// RecordService guards the single atomic ledger write. It owns the
// amount policy and the storage timeout; the transactional mechanics live
// in the store implementation.
type RecordService struct {
	store   domain.Store
	ceiling decimal.Decimal
	timeout time.Duration
	logger  *zap.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(store domain.Store, ceiling decimal.Decimal, timeout time.Duration, logger *zap.Logger) *RecordService {
	if ceiling.IsZero() || ceiling.IsNegative() {
		ceiling = decimal.NewFromInt(10_000_000)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RecordService{
		store:   store,
		ceiling: ceiling,
		timeout: timeout,
		logger:  logger,
	}
}

// Ceiling returns the configured maximum recordable amount
func (s *RecordService) Ceiling() decimal.Decimal {
	return s.ceiling
}

// Record validates the instruction and executes it atomically. Either
// the customer insert (if any), the transaction append and the balance
// update all commit, or none do.
func (s *RecordService) Record(ctx context.Context, in domain.RecordInstruction) (*domain.RecordResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record",
		telemetry.WithAttribute("kind", in.Kind.String()),
	)
	defer span.End()

	if err := s.validate(in); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.store.RecordTransaction(ctx, in)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.mapStoreError(err)
	}

	telemetry.SetAttributes(span,
		"transaction_id", result.Transaction.ID.String(),
		"customer_created", result.Created,
	)

	s.logger.Info("Transaction recorded",
		zap.String("transaction_id", result.Transaction.ID.String()),
		zap.String("customer_id", result.Customer.ID.String()),
		zap.String("kind", in.Kind.String()),
		zap.String("amount", in.Amount.String()),
		zap.String("balance", result.NewBalance.String()),
		zap.Bool("verified", result.Transaction.Verified),
		zap.Bool("customer_created", result.Created),
	)

	return result, nil
}

func (s *RecordService) validate(in domain.RecordInstruction) error {
	if !in.Kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", "Transaction kind must be CREDIT or PAYMENT")
	}
	if in.Amount.IsNegative() || in.Amount.IsZero() {
		return shared.ErrUnprocessableAmount.WithDetail("reason", "amount must be positive")
	}
	if in.Amount.GreaterThan(s.ceiling) {
		return shared.ErrUnprocessableAmount.
			WithDetail("reason", "amount exceeds ceiling").
			WithDetail("ceiling", s.ceiling.String())
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return shared.NewDomainError("INVALID_CONFIDENCE", "Confidence must be within [0, 1]")
	}
	if in.Ref.IsCreate() && in.Ref.NewName == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	return nil
}

// mapStoreError keeps domain errors intact and folds everything else,
// timeouts included, into a retryable persistence failure. By the time
// an error reaches here the store has rolled back.
func (s *RecordService) mapStoreError(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.logger.Error("Ledger store failure", zap.Error(err))
	if errors.Is(err, context.DeadlineExceeded) {
		return shared.ErrPersistenceFailure.WithDetail("reason", "storage timeout")
	}
	return shared.ErrPersistenceFailure
}

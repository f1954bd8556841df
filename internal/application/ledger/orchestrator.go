package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voiceledger/backend/internal/application/notify"
	domain "github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/domain/resolution"
	"github.com/voiceledger/backend/internal/domain/shared"
	"github.com/voiceledger/backend/internal/i18n"
	"github.com/voiceledger/backend/internal/infrastructure/telemetry"
)

// EvidenceStore archives raw audio clips and returns an opaque reference.
// A failing store never blocks a ledger write.
type EvidenceStore interface {
	Put(ctx context.Context, ownerID uuid.UUID, audio []byte) (string, error)
}

// PaymentDispatcher is the post-commit notification port
type PaymentDispatcher interface {
	DispatchPayment(ctx context.Context, owner *domain.Owner, customer *domain.Customer, tx *domain.Transaction) notify.Outcome
}

// Orchestrator runs the full entry pipeline: resolve the spoken name,
// record atomically, build the confirmation text, and kick off the
// post-commit notification for payments.
type Orchestrator struct {
	owners     domain.OwnerRepository
	customers  domain.CustomerRepository
	record     *RecordService
	evidence   EvidenceStore
	dispatcher PaymentDispatcher
	grace      time.Duration
	logger     *zap.Logger
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	owners domain.OwnerRepository,
	customers domain.CustomerRepository,
	record *RecordService,
	evidence EvidenceStore,
	dispatcher PaymentDispatcher,
	grace time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	if grace <= 0 {
		grace = 2 * time.Second
	}
	return &Orchestrator{
		owners:     owners,
		customers:  customers,
		record:     record,
		evidence:   evidence,
		dispatcher: dispatcher,
		grace:      grace,
		logger:     logger,
	}
}

// RecordEntry processes one extracted voice entry end to end. An
// ambiguous name returns shared.ErrAmbiguousCustomer carrying the
// clarification options; nothing is written in that case.
func (o *Orchestrator) RecordEntry(ctx context.Context, cmd RecordEntryCommand) (*EntryResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_entry",
		telemetry.WithAttribute("owner_id", cmd.OwnerID.String()),
	)
	defer span.End()

	owner, err := o.owners.FindByID(ctx, cmd.OwnerID)
	if err != nil {
		// An unknown owner is an authentication problem, not a lookup miss.
		if isNotFound(err) {
			return nil, shared.ErrUnauthorized
		}
		telemetry.RecordError(span, err)
		return nil, shared.ErrPersistenceFailure
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	candidates, err := o.customers.FindCandidates(ctx, cmd.OwnerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.ErrPersistenceFailure
	}

	outcome := resolution.Resolve(name, toResolutionCandidates(candidates))
	telemetry.SetAttributes(span,
		"resolution", string(outcome.Kind),
		"match_score", outcome.Score,
	)

	var ref domain.CustomerRef
	switch outcome.Kind {
	case resolution.OutcomeMatched:
		ref = domain.ExistingCustomer(outcome.CustomerID)
	case resolution.OutcomeCreated:
		ref = domain.NewCustomerNamed(name)
	case resolution.OutcomeAmbiguous:
		o.logger.Info("Spoken name ambiguous, asking for clarification",
			zap.String("owner_id", cmd.OwnerID.String()),
			zap.Int("candidates", len(outcome.Candidates)),
		)
		return nil, shared.ErrAmbiguousCustomer.
			WithDetail("candidates", o.clarificationOptions(outcome.Candidates, candidates))
	}

	audioRef, evidenceMissing := o.archiveEvidence(ctx, cmd)

	result, err := o.record.Record(ctx, domain.RecordInstruction{
		OwnerID:         cmd.OwnerID,
		Ref:             ref,
		Kind:            cmd.Kind,
		Amount:          cmd.Amount,
		Transcript:      cmd.Transcript,
		AudioRef:        audioRef,
		EvidenceMissing: evidenceMissing,
		Confidence:      cmd.Confidence,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	confirmation := o.confirmationText(owner, result)

	if cmd.Kind == domain.KindPayment {
		o.dispatchAsync(ctx, owner, result)
	}

	return &EntryResult{
		Transaction:      ToTransactionResponse(result.Transaction),
		Customer:         ToCustomerResponse(result.Customer),
		CustomerCreated:  result.Created,
		MatchScore:       outcome.Score,
		ConfirmationText: confirmation,
		UpdatedBalance:   result.NewBalance,
	}, nil
}

// archiveEvidence stores the audio clip if one was supplied. Upload
// failure degrades to a flagged entry instead of blocking the write.
func (o *Orchestrator) archiveEvidence(ctx context.Context, cmd RecordEntryCommand) (*string, bool) {
	if cmd.AudioRef != nil && *cmd.AudioRef != "" {
		return cmd.AudioRef, false
	}
	if len(cmd.Audio) == 0 {
		return nil, false
	}
	ref, err := o.evidence.Put(ctx, cmd.OwnerID, cmd.Audio)
	if err != nil {
		o.logger.Warn("Evidence upload failed, recording entry without audio",
			zap.String("owner_id", cmd.OwnerID.String()),
			zap.Error(err),
		)
		return nil, true
	}
	return &ref, false
}

func (o *Orchestrator) confirmationText(owner *domain.Owner, result *domain.RecordResult) string {
	tag := owner.LanguageOrDefault()
	if result.Transaction.Kind == domain.KindPayment {
		return i18n.PaymentConfirmation(tag, result.Customer.Name, result.Transaction.Amount, result.NewBalance)
	}
	return i18n.CreditConfirmation(tag, result.Customer.Name, result.Transaction.Amount, result.NewBalance)
}

// dispatchAsync fires the payment receipt after commit. The goroutine
// carries its own deadline; the request does not wait for it, and a
// failure is logged against the transaction id for later inspection.
func (o *Orchestrator) dispatchAsync(ctx context.Context, owner *domain.Owner, result *domain.RecordResult) {
	if o.dispatcher == nil {
		return
	}
	customer := result.Customer
	tx := result.Transaction
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.grace)

	go func() {
		defer cancel()
		outcome := o.dispatcher.DispatchPayment(dctx, owner, customer, tx)
		if outcome == notify.OutcomeFailed {
			o.logger.Warn("Payment notification not delivered",
				zap.String("transaction_id", tx.ID.String()),
				zap.String("customer_id", customer.ID.String()),
			)
		}
	}()
}

func (o *Orchestrator) clarificationOptions(scored []resolution.ScoredCandidate, customers []domain.Customer) []ClarificationOption {
	byID := make(map[uuid.UUID]*domain.Customer, len(customers))
	for i := range customers {
		byID[customers[i].ID] = &customers[i]
	}
	options := make([]ClarificationOption, 0, len(scored))
	for _, sc := range scored {
		option := ClarificationOption{
			CustomerID: sc.ID,
			Name:       sc.Name,
			Score:      sc.Score,
		}
		if c, ok := byID[sc.ID]; ok {
			option.Balance = c.Balance
		}
		options = append(options, option)
	}
	return options
}

func toResolutionCandidates(customers []domain.Customer) []resolution.Candidate {
	out := make([]resolution.Candidate, len(customers))
	for i, c := range customers {
		out[i] = resolution.Candidate{ID: c.ID, Name: c.Name}
	}
	return out
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}

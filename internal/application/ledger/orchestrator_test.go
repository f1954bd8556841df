package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voiceledger/backend/internal/application/notify"
	domain "github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/domain/shared"
)

type orchestratorFixture struct {
	owners     *mockOwnerRepo
	customers  *mockCustomerRepo
	store      *mockStore
	evidence   *mockEvidence
	dispatcher *mockDispatcher
	orch       *Orchestrator
	ownerID    uuid.UUID
	owner      *domain.Owner
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	f := &orchestratorFixture{
		owners:     new(mockOwnerRepo),
		customers:  new(mockCustomerRepo),
		store:      new(mockStore),
		evidence:   new(mockEvidence),
		dispatcher: newMockDispatcher(),
		ownerID:    uuid.New(),
	}
	f.owner = &domain.Owner{Name: "Shopkeeper", Language: "en"}
	f.owner.ID = f.ownerID

	record := NewRecordService(f.store, decimal.NewFromInt(10_000_000), time.Second, zap.NewNop())
	f.orch = NewOrchestrator(f.owners, f.customers, record, f.evidence, f.dispatcher, time.Second, zap.NewNop())
	return f
}

func (f *orchestratorFixture) existingCustomer(t *testing.T, name string, balance decimal.Decimal) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer(f.ownerID, name)
	require.NoError(t, err)
	c.Balance = balance
	return c
}

func recordResult(customer *domain.Customer, kind domain.TransactionKind, amount decimal.Decimal, created bool) *domain.RecordResult {
	before := customer.Balance
	var after decimal.Decimal
	if kind == domain.KindCredit {
		after = before.Add(amount)
	} else {
		after = before.Sub(amount)
	}
	tx, _ := domain.NewTransaction(customer.OwnerID, customer.ID, kind, amount, before, after, "transcript", 0.9)
	snapshot := *customer
	snapshot.Balance = after
	return &domain.RecordResult{
		Transaction: tx,
		Customer:    &snapshot,
		NewBalance:  after,
		Created:     created,
	}
}

func TestOrchestratorRecordEntry(t *testing.T) {
	t.Run("matches an existing customer and records a credit", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		ramesh := f.existingCustomer(t, "Ramesh", decimal.NewFromFloat(100))

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{*ramesh}, nil)
		f.store.On("RecordTransaction", mock.Anything, mock.MatchedBy(func(in domain.RecordInstruction) bool {
			return in.Ref.ID == ramesh.ID && in.Kind == domain.KindCredit
		})).Return(recordResult(ramesh, domain.KindCredit, decimal.NewFromFloat(50), false), nil)

		result, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Ramesh",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(50),
			Transcript: "Ramesh took rice for fifty",
			Confidence: 0.9,
		})

		require.NoError(t, err)
		assert.False(t, result.CustomerCreated)
		assert.True(t, result.UpdatedBalance.Equal(decimal.NewFromFloat(150)))
		assert.Contains(t, result.ConfirmationText, "Ramesh")
		assert.Contains(t, result.ConfirmationText, "150.00")
		f.dispatcher.AssertNotCalled(t, "DispatchPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creates a new customer inside the same unit for an unknown name", func(t *testing.T) {
		f := newOrchestratorFixture(t)

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{}, nil)

		created := f.existingCustomer(t, "Anita", decimal.Zero)
		f.store.On("RecordTransaction", mock.Anything, mock.MatchedBy(func(in domain.RecordInstruction) bool {
			return in.Ref.IsCreate() && in.Ref.NewName == "Anita"
		})).Return(recordResult(created, domain.KindCredit, decimal.NewFromFloat(20), true), nil)

		result, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Anita",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(20),
			Confidence: 0.85,
		})

		require.NoError(t, err)
		assert.True(t, result.CustomerCreated)
	})

	t.Run("ambiguous name returns clarification and writes nothing", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		a := f.existingCustomer(t, "Ramesh", decimal.NewFromFloat(10))
		b := f.existingCustomer(t, "Ramess", decimal.NewFromFloat(20))

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{*a, *b}, nil)

		_, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Rames",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(50),
			Confidence: 0.9,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrAmbiguousCustomer.Code, domainErr.Code)
		options, ok := domainErr.Details["candidates"].([]ClarificationOption)
		require.True(t, ok)
		assert.Len(t, options, 2)
		f.store.AssertNotCalled(t, "RecordTransaction", mock.Anything, mock.Anything)
	})

	t.Run("unknown owner is unauthorized", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(nil, shared.ErrNotFound)

		_, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Ramesh",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(50),
			Confidence: 0.9,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrUnauthorized.Code, domainErr.Code)
	})

	t.Run("payment triggers async notification after commit", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		ramesh := f.existingCustomer(t, "Ramesh", decimal.NewFromFloat(100))

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{*ramesh}, nil)
		f.store.On("RecordTransaction", mock.Anything, mock.Anything).
			Return(recordResult(ramesh, domain.KindPayment, decimal.NewFromFloat(40), false), nil)
		f.dispatcher.On("DispatchPayment", mock.Anything, f.owner, mock.Anything, mock.Anything).
			Return(notify.OutcomeSent)

		result, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Ramesh",
			Kind:       domain.KindPayment,
			Amount:     decimal.NewFromFloat(40),
			Confidence: 0.9,
		})

		require.NoError(t, err)
		assert.True(t, result.UpdatedBalance.Equal(decimal.NewFromFloat(60)))

		select {
		case <-f.dispatcher.done:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatcher was not invoked")
		}
	})

	t.Run("notification failure leaves the committed result untouched", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		ramesh := f.existingCustomer(t, "Ramesh", decimal.NewFromFloat(100))

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{*ramesh}, nil)
		f.store.On("RecordTransaction", mock.Anything, mock.Anything).
			Return(recordResult(ramesh, domain.KindPayment, decimal.NewFromFloat(40), false), nil)
		f.dispatcher.On("DispatchPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(notify.OutcomeFailed)

		result, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Ramesh",
			Kind:       domain.KindPayment,
			Amount:     decimal.NewFromFloat(40),
			Confidence: 0.9,
		})

		require.NoError(t, err)
		assert.True(t, result.UpdatedBalance.Equal(decimal.NewFromFloat(60)))
		<-f.dispatcher.done
	})

	t.Run("evidence upload failure degrades to a flagged entry", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		ramesh := f.existingCustomer(t, "Ramesh", decimal.NewFromFloat(100))

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{*ramesh}, nil)
		f.evidence.On("Put", mock.Anything, f.ownerID, mock.Anything).
			Return("", errors.New("bucket unavailable"))
		f.store.On("RecordTransaction", mock.Anything, mock.MatchedBy(func(in domain.RecordInstruction) bool {
			return in.AudioRef == nil && in.EvidenceMissing
		})).Return(recordResult(ramesh, domain.KindCredit, decimal.NewFromFloat(50), false), nil)

		_, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Ramesh",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(50),
			Audio:      []byte("clip"),
			Confidence: 0.9,
		})

		require.NoError(t, err)
		f.store.AssertExpectations(t)
	})

	t.Run("evidence upload success attaches the reference", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		ramesh := f.existingCustomer(t, "Ramesh", decimal.NewFromFloat(100))

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{*ramesh}, nil)
		f.evidence.On("Put", mock.Anything, f.ownerID, mock.Anything).
			Return("evidence/abc.ogg", nil)
		f.store.On("RecordTransaction", mock.Anything, mock.MatchedBy(func(in domain.RecordInstruction) bool {
			return in.AudioRef != nil && *in.AudioRef == "evidence/abc.ogg" && !in.EvidenceMissing
		})).Return(recordResult(ramesh, domain.KindCredit, decimal.NewFromFloat(50), false), nil)

		_, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Ramesh",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(50),
			Audio:      []byte("clip"),
			Confidence: 0.9,
		})

		require.NoError(t, err)
		f.store.AssertExpectations(t)
	})

	t.Run("store failure surfaces as persistence failure", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		ramesh := f.existingCustomer(t, "Ramesh", decimal.NewFromFloat(100))

		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)
		f.customers.On("FindCandidates", mock.Anything, f.ownerID).
			Return([]domain.Customer{*ramesh}, nil)
		f.store.On("RecordTransaction", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		_, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "Ramesh",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(50),
			Confidence: 0.9,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrPersistenceFailure.Code, domainErr.Code)
	})

	t.Run("empty name is rejected before resolution", func(t *testing.T) {
		f := newOrchestratorFixture(t)
		f.owners.On("FindByID", mock.Anything, f.ownerID).Return(f.owner, nil)

		_, err := f.orch.RecordEntry(context.Background(), RecordEntryCommand{
			OwnerID:    f.ownerID,
			Name:       "   ",
			Kind:       domain.KindCredit,
			Amount:     decimal.NewFromFloat(50),
			Confidence: 0.9,
		})

		require.Error(t, err)
		f.customers.AssertNotCalled(t, "FindCandidates", mock.Anything, mock.Anything)
	})
}

package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/voiceledger/backend/internal/application/notify"
	domain "github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/domain/shared"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) RecordTransaction(ctx context.Context, in domain.RecordInstruction) (*domain.RecordResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordResult), args.Error(1)
}

type mockOwnerRepo struct {
	mock.Mock
}

func (m *mockOwnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *mockOwnerRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]domain.Customer, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) FindCandidates(ctx context.Context, ownerID uuid.UUID) ([]domain.Customer, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Save(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerRepo) SaveWithLock(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerRepo) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepo) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) FindByCustomer(ctx context.Context, ownerID, customerID uuid.UUID, filter shared.Filter) ([]domain.Transaction, error) {
	args := m.Called(ctx, ownerID, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) CountByCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionRepo) SumByKind(ctx context.Context, ownerID, customerID uuid.UUID, kind domain.TransactionKind) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, customerID, kind)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockEvidence struct {
	mock.Mock
}

func (m *mockEvidence) Put(ctx context.Context, ownerID uuid.UUID, audio []byte) (string, error) {
	args := m.Called(ctx, ownerID, audio)
	return args.String(0), args.Error(1)
}

type mockDispatcher struct {
	mock.Mock
	done chan struct{}
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{done: make(chan struct{}, 8)}
}

func (m *mockDispatcher) DispatchPayment(ctx context.Context, owner *domain.Owner, customer *domain.Customer, tx *domain.Transaction) notify.Outcome {
	args := m.Called(ctx, owner, customer, tx)
	if m.done != nil {
		m.done <- struct{}{}
	}
	return args.Get(0).(notify.Outcome)
}

package ledger

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/domain/shared"
	"github.com/voiceledger/backend/internal/infrastructure/telemetry"
)

// CustomerService serves the owner-facing read surfaces: customer lists,
// balances, transaction history and log reconciliation.
type CustomerService struct {
	customers    domain.CustomerRepository
	transactions domain.TransactionRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers domain.CustomerRepository, transactions domain.TransactionRepository) *CustomerService {
	return &CustomerService{
		customers:    customers,
		transactions: transactions,
	}
}

// List returns the owner's customers, paginated
func (s *CustomerService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	customers, err := s.customers.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Get returns one customer with its balance. A foreign owner's customer
// ID comes back as not found.
func (s *CustomerService) Get(ctx context.Context, ownerID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByIDForOwner(ctx, ownerID, customerID)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Transactions returns a customer's history, newest first
func (s *CustomerService) Transactions(ctx context.Context, ownerID, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransactionResponse], error) {
	if _, err := s.customers.FindByIDForOwner(ctx, ownerID, customerID); err != nil {
		return nil, err
	}

	txs, err := s.transactions.FindByCustomer(ctx, ownerID, customerID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.transactions.CountByCustomer(ctx, ownerID, customerID)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionResponse, len(txs))
	for i := range txs {
		items[i] = ToTransactionResponse(&txs[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Reconcile replays the transaction log and compares it against the
// stored balance. The log is the source of truth; any drift means the
// denormalized balance needs repair.
func (s *CustomerService) Reconcile(ctx context.Context, ownerID, customerID uuid.UUID) (*ReconcileResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "reconcile")
	defer span.End()

	customer, err := s.customers.FindByIDForOwner(ctx, ownerID, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	credits, err := s.transactions.SumByKind(ctx, ownerID, customerID, domain.KindCredit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	payments, err := s.transactions.SumByKind(ctx, ownerID, customerID, domain.KindPayment)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	computed := credits.Sub(payments)
	drift := customer.Balance.Sub(computed)

	return &ReconcileResponse{
		CustomerID:      customerID,
		StoredBalance:   customer.Balance,
		ComputedBalance: computed,
		CreditTotal:     credits,
		PaymentTotal:    payments,
		Drift:           drift,
		Consistent:      drift.IsZero(),
	}, nil
}

package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voiceledger/backend/internal/domain/shared"
)

// TransactionRepository defines the interface for the append-only
// transaction log. There is deliberately no update or delete.
type TransactionRepository interface {
	// Create appends a transaction to the log
	Create(ctx context.Context, tx *Transaction) error

	// FindByIDForOwner finds a transaction by ID within an owner's ledger
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)

	// FindByCustomer lists a customer's transactions, newest first
	FindByCustomer(ctx context.Context, ownerID, customerID uuid.UUID, filter shared.Filter) ([]Transaction, error)

	// CountByCustomer counts a customer's transactions
	CountByCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (int64, error)

	// SumByKind sums transaction amounts of one kind for a customer.
	// Used by reconciliation to recompute the balance from the log.
	SumByKind(ctx context.Context, ownerID, customerID uuid.UUID, kind TransactionKind) (decimal.Decimal, error)
}

package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerRef identifies the customer a transaction belongs to: either an
// existing customer by ID, or a brand-new one by name. Creating the
// customer is folded into the same atomic unit as its first transaction,
// so a crash between the two cannot leave a customer-without-entry.
type CustomerRef struct {
	ID      uuid.UUID // Existing customer; uuid.Nil when creating
	NewName string    // Name for a new customer; empty when ID is set
}

// ExistingCustomer references an already-resolved customer
func ExistingCustomer(id uuid.UUID) CustomerRef {
	return CustomerRef{ID: id}
}

// NewCustomerNamed requests creation of a new customer in the same unit
func NewCustomerNamed(name string) CustomerRef {
	return CustomerRef{NewName: name}
}

// IsCreate returns true when the ref requests customer creation
func (r CustomerRef) IsCreate() bool {
	return r.ID == uuid.Nil
}

// RecordInstruction carries everything the store needs to append one
// entry and move the balance in a single transaction.
type RecordInstruction struct {
	OwnerID         uuid.UUID
	Ref             CustomerRef
	Kind            TransactionKind
	Amount          decimal.Decimal // Always positive
	Transcript      string
	AudioRef        *string // nil when evidence upload failed or was absent
	EvidenceMissing bool    // true when evidence was expected but could not be stored
	Confidence      float64
}

// RecordResult is the committed outcome of a record instruction
type RecordResult struct {
	Transaction *Transaction
	Customer    *Customer
	NewBalance  decimal.Decimal
	Created     bool // true when the customer was created in this unit
}

// Store exposes the single atomic ledger operation. Implementations must
// guarantee that the customer insert (if any), the transaction append and
// the balance update commit together or not at all, and that concurrent
// records against the same customer serialize on that customer's row.
type Store interface {
	RecordTransaction(ctx context.Context, in RecordInstruction) (*RecordResult, error)
}

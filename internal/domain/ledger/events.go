package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voiceledger/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCustomer    = "Customer"
	AggregateTypeTransaction = "Transaction"
)

// Event type constants
const (
	EventTypeCustomerCreated        = "CustomerCreated"
	EventTypeCustomerBalanceChanged = "CustomerBalanceChanged"
	EventTypeTransactionRecorded    = "TransactionRecorded"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID, customer.OwnerID),
		CustomerID:      customer.ID,
		Name:            customer.Name,
	}
}

// CustomerBalanceChangedEvent is published when a customer's balance changes
type CustomerBalanceChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Kind       TransactionKind `json:"kind"`
}

// NewCustomerBalanceChangedEvent creates a new CustomerBalanceChangedEvent
func NewCustomerBalanceChangedEvent(customer *Customer, oldBalance, newBalance decimal.Decimal, kind TransactionKind) *CustomerBalanceChangedEvent {
	return &CustomerBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerBalanceChanged, AggregateTypeCustomer, customer.ID, customer.OwnerID),
		CustomerID:      customer.ID,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		Kind:            kind,
	}
}

// TransactionRecordedEvent is published after a transaction commits
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Kind          TransactionKind `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Verified      bool            `json:"verified"`
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(tx *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, AggregateTypeTransaction, tx.ID, tx.OwnerID),
		TransactionID:   tx.ID,
		CustomerID:      tx.CustomerID,
		Kind:            tx.Kind,
		Amount:          tx.Amount,
		BalanceAfter:    tx.BalanceAfter,
		Verified:        tx.Verified,
	}
}

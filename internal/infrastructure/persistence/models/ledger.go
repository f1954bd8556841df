package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voiceledger/backend/internal/domain/ledger"
)

// OwnerModel is the persistence model for shopkeeper accounts
type OwnerModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	Phone    string `gorm:"type:varchar(50);index"`
	Language string `gorm:"type:varchar(35);not null;default:'en'"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the model to a domain owner
func (m *OwnerModel) ToDomain() *ledger.Owner {
	return &ledger.Owner{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Phone:      m.Phone,
		Language:   m.Language,
	}
}

// OwnerModelFromDomain converts a domain owner to its persistence model
func OwnerModelFromDomain(o *ledger.Owner) *OwnerModel {
	m := &OwnerModel{
		Name:     o.Name,
		Phone:    o.Phone,
		Language: o.Language,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// CustomerModel is the persistence model for ledger customers
type CustomerModel struct {
	OwnedAggregateModel
	Name     string          `gorm:"type:varchar(200);not null;index:idx_customers_owner_name,priority:2"`
	Phone    string          `gorm:"type:varchar(50)"`
	Language string          `gorm:"type:varchar(35)"`
	Balance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain customer
func (m *CustomerModel) ToDomain() *ledger.Customer {
	customer := &ledger.Customer{
		Name:     m.Name,
		Phone:    m.Phone,
		Language: m.Language,
		Balance:  m.Balance,
	}
	m.PopulateOwnedAggregateRoot(&customer.OwnedAggregateRoot)
	return customer
}

// CustomerModelFromDomain converts a domain customer to its persistence model
func CustomerModelFromDomain(c *ledger.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:     c.Name,
		Phone:    c.Phone,
		Language: c.Language,
		Balance:  c.Balance,
	}
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	return m
}

// TransactionModel is the persistence model for the append-only
// transaction log. Rows are inserted and read, never updated.
type TransactionModel struct {
	BaseModel
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_owner_customer,priority:1"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_owner_customer,priority:2"`
	Kind            string          `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Transcript      string          `gorm:"type:text"`
	AudioRef        *string         `gorm:"type:varchar(500)"`
	EvidenceMissing bool            `gorm:"not null;default:false"`
	Confidence      float64         `gorm:"not null"`
	Verified        bool            `gorm:"not null"`
	RecordedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the model to a domain transaction
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseEntity:      m.BaseModel.ToDomain(),
		OwnerID:         m.OwnerID,
		CustomerID:      m.CustomerID,
		Kind:            ledger.TransactionKind(m.Kind),
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		Transcript:      m.Transcript,
		AudioRef:        m.AudioRef,
		EvidenceMissing: m.EvidenceMissing,
		Confidence:      m.Confidence,
		Verified:        m.Verified,
		RecordedAt:      m.RecordedAt,
	}
}

// TransactionModelFromDomain converts a domain transaction to its persistence model
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{
		OwnerID:         t.OwnerID,
		CustomerID:      t.CustomerID,
		Kind:            t.Kind.String(),
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		Transcript:      t.Transcript,
		AudioRef:        t.AudioRef,
		EvidenceMissing: t.EvidenceMissing,
		Confidence:      t.Confidence,
		Verified:        t.Verified,
		RecordedAt:      t.RecordedAt,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

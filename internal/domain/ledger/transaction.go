package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voiceledger/backend/internal/domain/shared"
)

// VerifiedThreshold is the transcription confidence at or above which a
// transaction is marked verified. Entries below it are flagged for the
// owner's review but recorded all the same.
const VerifiedThreshold = 0.7

// TransactionKind represents the direction of a ledger entry
type TransactionKind string

const (
	// KindCredit records goods taken on credit (balance increases)
	KindCredit TransactionKind = "CREDIT"
	// KindPayment records money paid back (balance decreases)
	KindPayment TransactionKind = "PAYMENT"
)

// String returns the string representation of TransactionKind
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid returns true if the transaction kind is valid
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindCredit, KindPayment:
		return true
	}
	return false
}

// Transaction represents an immutable ledger entry. Once created,
// transactions cannot be modified or deleted; corrections must be made
// with new transactions. The owner ID is denormalized so isolation checks
// never need a join.
type Transaction struct {
	shared.BaseEntity
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind            TransactionKind `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction from Kind
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Transcript      string          `gorm:"type:text"`
	AudioRef        *string         `gorm:"type:varchar(500)"` // Opaque evidence-store reference
	EvidenceMissing bool            `gorm:"not null;default:false"`
	Confidence      float64         `gorm:"not null"`
	Verified        bool            `gorm:"not null"`
	RecordedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a new ledger transaction
func NewTransaction(
	ownerID uuid.UUID,
	customerID uuid.UUID,
	kind TransactionKind,
	amount decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
	transcript string,
	confidence float64,
) (*Transaction, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Transaction kind must be CREDIT or PAYMENT")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.ErrUnprocessableAmount.WithDetail("reason", "amount must be positive")
	}
	if confidence < 0 || confidence > 1 {
		return nil, shared.NewDomainError("INVALID_CONFIDENCE", "Confidence must be within [0, 1]")
	}

	tx := &Transaction{
		BaseEntity:    shared.NewBaseEntity(),
		OwnerID:       ownerID,
		CustomerID:    customerID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Transcript:    transcript,
		Confidence:    confidence,
		Verified:      confidence >= VerifiedThreshold,
		RecordedAt:    time.Now(),
	}

	return tx, nil
}

// WithAudioRef attaches an evidence-store reference to the transaction
func (t *Transaction) WithAudioRef(ref string) *Transaction {
	t.AudioRef = &ref
	return t
}

// MarkEvidenceMissing flags the transaction as recorded without its audio
// evidence. The entry itself is unaffected.
func (t *Transaction) MarkEvidenceMissing() *Transaction {
	t.AudioRef = nil
	t.EvidenceMissing = true
	return t
}

// SignedAmount returns the amount with sign based on kind.
// Positive for credits, negative for payments.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindPayment {
		return t.Amount.Neg()
	}
	return t.Amount
}

// BalanceChange returns the net balance change recorded by this entry
func (t *Transaction) BalanceChange() decimal.Decimal {
	return t.BalanceAfter.Sub(t.BalanceBefore)
}

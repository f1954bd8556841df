package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/voiceledger/backend/internal/domain/ledger"
)

// RecordEntryCommand is the parsed, validated input to the orchestrator.
// The owner ID comes from the authenticated token, never from the body.
type RecordEntryCommand struct {
	OwnerID    uuid.UUID
	Name       string
	Kind       domain.TransactionKind
	Amount     decimal.Decimal
	Transcript string
	Audio      []byte  // raw clip to archive as evidence, optional
	AudioRef   *string // pre-uploaded evidence reference, optional
	Confidence float64
}

// TransactionResponse is the transaction representation returned to callers
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Transcript      string          `json:"transcript,omitempty"`
	AudioRef        *string         `json:"audio_ref,omitempty"`
	EvidenceMissing bool            `json:"evidence_missing"`
	Confidence      float64         `json:"confidence"`
	Verified        bool            `json:"verified"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

// ToTransactionResponse converts a domain transaction to its response form
func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		CustomerID:      tx.CustomerID,
		Kind:            tx.Kind.String(),
		Amount:          tx.Amount,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		Transcript:      tx.Transcript,
		AudioRef:        tx.AudioRef,
		EvidenceMissing: tx.EvidenceMissing,
		Confidence:      tx.Confidence,
		Verified:        tx.Verified,
		RecordedAt:      tx.RecordedAt,
	}
}

// CustomerResponse is the customer representation returned to callers
type CustomerResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Language  string          `json:"language,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToCustomerResponse converts a domain customer to its response form
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Language:  c.Language,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
	}
}

// EntryResult is the successful outcome of recording one ledger entry
type EntryResult struct {
	Transaction      TransactionResponse `json:"transaction"`
	Customer         CustomerResponse    `json:"customer"`
	CustomerCreated  bool                `json:"customer_created"`
	MatchScore       float64             `json:"match_score"`
	ConfirmationText string              `json:"confirmation_text"`
	UpdatedBalance   decimal.Decimal     `json:"updated_balance"`
}

// ClarificationOption is one candidate offered back when a spoken name
// matched several customers too closely
type ClarificationOption struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Name       string          `json:"name"`
	Score      float64         `json:"score"`
	Balance    decimal.Decimal `json:"balance"`
}

// ReconcileResponse reports a replay of the transaction log against the
// stored balance
type ReconcileResponse struct {
	CustomerID      uuid.UUID       `json:"customer_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	CreditTotal     decimal.Decimal `json:"credit_total"`
	PaymentTotal    decimal.Decimal `json:"payment_total"`
	Drift           decimal.Decimal `json:"drift"`
	Consistent      bool            `json:"consistent"`
}

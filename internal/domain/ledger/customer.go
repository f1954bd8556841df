package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voiceledger/backend/internal/domain/shared"
)

// Customer represents one person a shopkeeper extends credit to. It is the
// aggregate root for balance operations and is scoped to a single owner.
// Customers are never deleted; the transaction log behind them is the
// source of truth and must stay replayable.
type Customer struct {
	shared.OwnedAggregateRoot
	Name     string          `gorm:"type:varchar(200);not null;index"`
	Phone    string          `gorm:"type:varchar(50)"`
	Language string          `gorm:"type:varchar(35)"` // BCP-47 tag, optional
	Balance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with a zero balance
func NewCustomer(ownerID uuid.UUID, name string) (*Customer, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	customer := &Customer{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               strings.TrimSpace(name),
		Balance:            decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// SetPhone sets the customer's phone number
func (c *Customer) SetPhone(phone string) error {
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetLanguage sets the customer's preferred language tag
func (c *Customer) SetLanguage(tag string) error {
	if len(tag) > 35 {
		return shared.NewDomainError("INVALID_LANGUAGE", "Language tag cannot exceed 35 characters")
	}

	c.Language = tag
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ApplyCredit increases the balance by the given amount (goods taken on
// credit). The amount must be positive; direction comes from the caller.
func (c *Customer) ApplyCredit(amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	oldBalance := c.Balance
	c.Balance = c.Balance.Add(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, oldBalance, c.Balance, KindCredit))

	return nil
}

// ApplyPayment decreases the balance by the given amount. The balance is
// allowed to go negative: an overpayment becomes credit the shopkeeper
// owes back. No clamping happens here or anywhere else.
func (c *Customer) ApplyPayment(amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	oldBalance := c.Balance
	c.Balance = c.Balance.Sub(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, oldBalance, c.Balance, KindPayment))

	return nil
}

// Apply applies a transaction amount in the direction given by kind
func (c *Customer) Apply(kind TransactionKind, amount decimal.Decimal) error {
	switch kind {
	case KindCredit:
		return c.ApplyCredit(amount)
	case KindPayment:
		return c.ApplyPayment(amount)
	default:
		return shared.NewDomainError("INVALID_KIND", "Transaction kind must be CREDIT or PAYMENT")
	}
}

// HasPhone returns true if the customer has a phone number on file
func (c *Customer) HasPhone() bool {
	return c.Phone != ""
}

// LanguageOrDefault returns the customer's language tag, falling back to
// the given owner tag when the customer has none stored.
func (c *Customer) LanguageOrDefault(ownerTag string) string {
	if c.Language != "" {
		return c.Language
	}
	return ownerTag
}

// Owes returns true if the customer currently owes the shopkeeper money
func (c *Customer) Owes() bool {
	return c.Balance.GreaterThan(decimal.Zero)
}

func validateCustomerName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
		default:
			return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
		}
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.ErrUnprocessableAmount.WithDetail("reason", "amount must be positive")
	}
	return nil
}

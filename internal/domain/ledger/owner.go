package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/voiceledger/backend/internal/domain/shared"
)

// Owner represents a shopkeeper account. Owners are registered through an
// external surface; this context only reads them, except for the language
// preference which the registration surface may update at any time.
type Owner struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null"`
	Phone    string `gorm:"type:varchar(50);index"`
	Language string `gorm:"type:varchar(35);not null;default:'en'"` // BCP-47 tag
}

// TableName returns the table name for GORM
func (Owner) TableName() string {
	return "owners"
}

// LanguageOrDefault returns the owner's preferred language tag, falling
// back to English when none is stored.
func (o *Owner) LanguageOrDefault() string {
	if o.Language == "" {
		return "en"
	}
	return o.Language
}

// OwnerRepository defines the interface for owner lookups
type OwnerRepository interface {
	// FindByID finds an owner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Owner, error)

	// Exists reports whether an owner with the given ID is registered
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

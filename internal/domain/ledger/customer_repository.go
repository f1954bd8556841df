package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/voiceledger/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence.
// All lookups are owner-scoped: an ID that belongs to a different owner
// behaves exactly like a missing record.
type CustomerRepository interface {
	// FindByIDForOwner finds a customer by ID within an owner's ledger
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Customer, error)

	// FindAllForOwner finds all customers for an owner
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// FindCandidates returns the resolution candidate set for an owner:
	// every customer id/name pair, read without any balance lock
	FindCandidates(ctx context.Context, ownerID uuid.UUID) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock saves a customer with optimistic locking (version check).
	// Returns shared.ErrConcurrencyConflict if the version has changed.
	SaveWithLock(ctx context.Context, customer *Customer) error

	// CountForOwner counts customers for an owner
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}

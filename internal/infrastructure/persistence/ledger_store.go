package persistence

import (
	"context"
	"errors"

	"github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/domain/shared"
	"github.com/voiceledger/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerStore implements ledger.Store on GORM. The customer insert (when
// the name resolved to a new customer), the transaction append and the
// balance update run inside one database transaction; the customer row
// is locked FOR UPDATE so concurrent records against the same customer
// serialize, while different customers proceed independently.
type LedgerStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewLedgerStore creates a new LedgerStore
func NewLedgerStore(db *gorm.DB, logger *zap.Logger) *LedgerStore {
	return &LedgerStore{db: db, logger: logger}
}

// RecordTransaction executes one record instruction atomically
func (s *LedgerStore) RecordTransaction(ctx context.Context, in ledger.RecordInstruction) (*ledger.RecordResult, error) {
	var result *ledger.RecordResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, created, err := s.loadOrCreateCustomer(tx, in)
		if err != nil {
			return err
		}

		balanceBefore := customer.Balance
		if err := customer.Apply(in.Kind, in.Amount); err != nil {
			return err
		}

		entry, err := ledger.NewTransaction(
			in.OwnerID,
			customer.ID,
			in.Kind,
			in.Amount,
			balanceBefore,
			customer.Balance,
			in.Transcript,
			in.Confidence,
		)
		if err != nil {
			return err
		}
		if in.AudioRef != nil && *in.AudioRef != "" {
			entry.WithAudioRef(*in.AudioRef)
		}
		if in.EvidenceMissing {
			entry.MarkEvidenceMissing()
		}

		if err := tx.Create(models.TransactionModelFromDomain(entry)).Error; err != nil {
			return err
		}

		// Version check on top of the row lock. With the lock held it
		// cannot fail in postgres; it is the safety net on backends
		// without FOR UPDATE.
		res := tx.Model(&models.CustomerModel{}).
			Where("id = ? AND version = ?", customer.ID, customer.Version-1).
			Updates(map[string]interface{}{
				"balance":    customer.Balance,
				"version":    customer.Version,
				"updated_at": customer.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		result = &ledger.RecordResult{
			Transaction: entry,
			Customer:    customer,
			NewBalance:  customer.Balance,
			Created:     created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadOrCreateCustomer fetches the target customer under a row lock, or
// inserts a new one when the instruction asks for creation. Either way
// the returned customer is exclusively ours until commit.
func (s *LedgerStore) loadOrCreateCustomer(tx *gorm.DB, in ledger.RecordInstruction) (*ledger.Customer, bool, error) {
	if in.Ref.IsCreate() {
		customer, err := ledger.NewCustomer(in.OwnerID, in.Ref.NewName)
		if err != nil {
			return nil, false, err
		}
		if err := tx.Create(models.CustomerModelFromDomain(customer)).Error; err != nil {
			return nil, false, err
		}
		return customer, true, nil
	}

	var model models.CustomerModel
	if err := s.lockForUpdate(tx).
		Where("owner_id = ? AND id = ?", in.OwnerID, in.Ref.ID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Covers both a genuinely unknown ID and a cross-owner
			// reference; the two are indistinguishable on purpose.
			return nil, false, shared.ErrUnknownCustomerRef
		}
		return nil, false, err
	}
	return model.ToDomain(), false, nil
}

// lockForUpdate adds FOR UPDATE where the backend speaks it. sqlite
// serializes writers on its own and rejects the clause.
func (s *LedgerStore) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Ensure LedgerStore implements ledger.Store
var _ ledger.Store = (*LedgerStore)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/voiceledger/backend/internal/domain/ledger"
	"github.com/voiceledger/backend/internal/domain/shared"
	"github.com/voiceledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM.
// The log is append-only; this repository offers no update or delete.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a transaction to the log
func (r *GormTransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByIDForOwner finds a transaction by ID within an owner's ledger
func (r *GormTransactionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists a customer's transactions, newest first
func (r *GormTransactionRepository) FindByCustomer(ctx context.Context, ownerID, customerID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("owner_id = ? AND customer_id = ?", ownerID, customerID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, TransactionSortFields, "recorded_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	txs := make([]ledger.Transaction, len(txModels))
	for i, model := range txModels {
		txs[i] = *model.ToDomain()
	}
	return txs, nil
}

// CountByCustomer counts a customer's transactions
func (r *GormTransactionRepository) CountByCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("owner_id = ? AND customer_id = ?", ownerID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByKind sums transaction amounts of one kind for a customer
func (r *GormTransactionRepository) SumByKind(ctx context.Context, ownerID, customerID uuid.UUID, kind ledger.TransactionKind) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("SUM(amount)").
		Where("owner_id = ? AND customer_id = ? AND kind = ?", ownerID, customerID, kind.String()).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)

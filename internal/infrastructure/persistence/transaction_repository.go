package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var transactionOrderColumns = map[string]bool{
	"type":       true,
	"quantity":   true,
	"created_at": true,
}

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*activity.StockTransaction, error) {
	var tx activity.StockTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll finds all transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]activity.StockTransaction, error) {
	var txs []activity.StockTransaction
	query := r.db.WithContext(ctx).Model(&activity.StockTransaction{})
	query = applyOrder(query, filter, transactionOrderColumns, "created_at")
	query = applyPagination(query, filter)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByItem finds all transactions touching an item
func (r *GormTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]activity.StockTransaction, error) {
	var txs []activity.StockTransaction
	query := r.db.WithContext(ctx).
		Model(&activity.StockTransaction{}).
		Where("item_id = ?", itemID)
	query = applyOrder(query, filter, transactionOrderColumns, "created_at")
	query = applyPagination(query, filter)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindRecent returns the most recent transactions
func (r *GormTransactionRepository) FindRecent(ctx context.Context, limit int) ([]activity.StockTransaction, error) {
	var txs []activity.StockTransaction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Save creates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *activity.StockTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// DeleteAll removes every transaction
func (r *GormTransactionRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&activity.StockTransaction{}).Error
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&activity.StockTransaction{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ activity.TransactionRepository = (*GormTransactionRepository)(nil)

package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/shared"
)

// TransactionRepository defines the interface for stock transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)

	// FindAll finds all transactions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockTransaction, error)

	// FindByItem finds all transactions touching an item
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindRecent returns the most recent transactions
	FindRecent(ctx context.Context, limit int) ([]StockTransaction, error)

	// Save creates a transaction (transactions are append-only)
	Save(ctx context.Context, tx *StockTransaction) error

	// DeleteAll removes every transaction; used by the backup restore path
	DeleteAll(ctx context.Context) error

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

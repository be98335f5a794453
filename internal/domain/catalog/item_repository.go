package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindAll finds all items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// FindByCategory finds all items in a category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every item; used by the backup restore path
	DeleteAll(ctx context.Context) error

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountLowStock counts active items at or below their min stock level
	CountLowStock(ctx context.Context) (int64, error)

	// SumStockValue sums quantity * unit_price across all items
	SumStockValue(ctx context.Context) (decimal.Decimal, error)
}

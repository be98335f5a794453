package backup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// ItemParams carries the normalized fields for an item created during a
// restore
type ItemParams struct {
	Name           string
	SKU            string
	Description    string
	CategoryID     *uuid.UUID
	Quantity       int
	UnitPrice      decimal.Decimal
	Location       string
	MinStockLevel  int
	Status         string
	RentedCount    int
	BrokenCount    int
	Rentable       bool
	Expirable      bool
	ExpirationDate *time.Time
}

// Gateway is the persistence surface the backup subsystem consumes. Each
// call is atomic on its own; cross-kind atomicity exists only behind
// AtomicGateway, which is why the reconciler validates everything before
// the first write.
type Gateway interface {
	// CreateCategory creates a category and returns it with its newly
	// assigned identifier
	CreateCategory(ctx context.Context, name string, description *string) (*catalog.Category, error)

	// CreateUser creates a user; returns shared.ErrDuplicateUsername when
	// the username is already taken
	CreateUser(ctx context.Context, username, fullName, role string, isActive bool) (*identity.User, error)

	// CreateItem creates an item from normalized parameters
	CreateItem(ctx context.Context, params ItemParams) (*catalog.Item, error)

	// ClearAllData removes all categories, users, items, and transactions.
	// There is no partial-clear mode.
	ClearAllData(ctx context.Context) error

	// EnsureDefaultAdmin guarantees at least one admin-role user exists.
	// Idempotent in effect; safe to call when one already exists.
	EnsureDefaultAdmin(ctx context.Context) error

	// Whole-table reads for export
	GetAllCategories(ctx context.Context) ([]catalog.Category, error)
	GetAllUsers(ctx context.Context) ([]identity.User, error)
	GetAllItems(ctx context.Context) ([]catalog.Item, error)
	GetAllTransactions(ctx context.Context) ([]activity.StockTransaction, error)
}

// AtomicGateway is implemented by gateways that can run a whole commit
// phase inside a single store transaction. fn receives a Gateway bound to
// that transaction; returning an error rolls everything back.
type AtomicGateway interface {
	Gateway
	Atomically(ctx context.Context, fn func(Gateway) error) error
}

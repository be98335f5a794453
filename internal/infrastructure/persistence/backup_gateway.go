package persistence

import (
	"context"

	appbackup "github.com/invtrack/backend/internal/application/backup"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/invtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// BackupGatewayConfig carries the credentials the gateway needs when it has
// to mint accounts on its own
type BackupGatewayConfig struct {
	// DefaultAdminUsername and DefaultAdminPassword seed the admin account
	// EnsureDefaultAdmin creates when no admin exists
	DefaultAdminUsername string
	DefaultAdminPassword string
	// DefaultImportPassword is assigned to every user restored from a
	// snapshot; snapshots carry no credentials
	DefaultImportPassword string
}

// GormBackupGateway is the persistence surface of the backup subsystem. Each
// method is a single-row or single-table operation; the import reconciler is
// responsible for ordering them safely.
type GormBackupGateway struct {
	db           *gorm.DB
	categoryRepo catalog.CategoryRepository
	itemRepo     catalog.ItemRepository
	userRepo     identity.UserRepository
	txRepo       activity.TransactionRepository
	cfg          BackupGatewayConfig
}

// NewGormBackupGateway creates a new GormBackupGateway
func NewGormBackupGateway(db *gorm.DB, cfg BackupGatewayConfig) *GormBackupGateway {
	return &GormBackupGateway{
		db:           db,
		categoryRepo: NewGormCategoryRepository(db),
		itemRepo:     NewGormItemRepository(db),
		userRepo:     NewGormUserRepository(db),
		txRepo:       NewGormTransactionRepository(db),
		cfg:          cfg,
	}
}

// CreateCategory creates a category and returns it with its new identifier
func (g *GormBackupGateway) CreateCategory(ctx context.Context, name string, description *string) (*catalog.Category, error) {
	category, err := catalog.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	if err := g.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateUser creates a user carrying the configured import password.
// Returns shared.ErrDuplicateUsername when the username is taken.
func (g *GormBackupGateway) CreateUser(ctx context.Context, username, fullName, role string, isActive bool) (*identity.User, error) {
	user, err := identity.NewUser(username, fullName, role, g.cfg.DefaultImportPassword)
	if err != nil {
		return nil, err
	}
	user.IsActive = isActive

	if err := g.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateItem creates an item from normalized restore parameters
func (g *GormBackupGateway) CreateItem(ctx context.Context, params appbackup.ItemParams) (*catalog.Item, error) {
	item, err := catalog.NewItem(params.Name, params.SKU, params.UnitPrice)
	if err != nil {
		return nil, err
	}

	item.Description = params.Description
	item.CategoryID = params.CategoryID
	item.Quantity = params.Quantity
	item.Location = params.Location
	item.MinStockLevel = params.MinStockLevel
	item.Status = catalog.ItemStatus(params.Status)
	item.RentedCount = params.RentedCount
	item.BrokenCount = params.BrokenCount
	item.Rentable = params.Rentable
	item.Expirable = params.Expirable
	item.ExpirationDate = params.ExpirationDate

	if err := g.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ClearAllData removes every record from all four tables. Transactions and
// items go first so foreign keys to users and categories never dangle.
func (g *GormBackupGateway) ClearAllData(ctx context.Context) error {
	if err := g.txRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := g.itemRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := g.userRepo.DeleteAll(ctx); err != nil {
		return err
	}
	return g.categoryRepo.DeleteAll(ctx)
}

// EnsureDefaultAdmin creates the configured admin account when no admin-role
// user exists. Safe to call repeatedly.
func (g *GormBackupGateway) EnsureDefaultAdmin(ctx context.Context) error {
	admins, err := g.userRepo.CountByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	admin, err := identity.NewUser(g.cfg.DefaultAdminUsername, "Administrator", identity.RoleAdmin, g.cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}
	if err := g.userRepo.Save(ctx, admin); err != nil {
		// A concurrent import may have created it between the count and
		// the insert; that still satisfies the guarantee.
		if err == shared.ErrDuplicateUsername {
			return nil
		}
		return err
	}
	return nil
}

// GetAllCategories returns every category
func (g *GormBackupGateway) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := g.db.WithContext(ctx).Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetAllUsers returns every user
func (g *GormBackupGateway) GetAllUsers(ctx context.Context) ([]identity.User, error) {
	var users []identity.User
	if err := g.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetAllItems returns every item
func (g *GormBackupGateway) GetAllItems(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	if err := g.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetAllTransactions returns every stock transaction
func (g *GormBackupGateway) GetAllTransactions(ctx context.Context) ([]activity.StockTransaction, error) {
	var txs []activity.StockTransaction
	if err := g.db.WithContext(ctx).Order("created_at ASC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Atomically runs fn against a gateway bound to a single database
// transaction; an error from fn rolls every write back. The default server
// wiring does not opt in, keeping the documented degrade-to-minimal-state
// behavior on commit failure.
func (g *GormBackupGateway) Atomically(ctx context.Context, fn func(appbackup.Gateway) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormBackupGateway(tx, g.cfg))
	})
}

var _ appbackup.AtomicGateway = (*GormBackupGateway)(nil)

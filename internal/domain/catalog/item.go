package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the lifecycle status of an item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// DefaultMinStockLevel is applied when an item carries no explicit threshold
const DefaultMinStockLevel = 5

// Item represents a tracked inventory item
type Item struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null;index"`
	SKU            string          `gorm:"type:varchar(100);not null;index"`
	Description    string          `gorm:"type:text"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity       int             `gorm:"not null;default:0"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Location       string          `gorm:"type:varchar(200)"`
	MinStockLevel  int             `gorm:"not null;default:5"`
	Status         ItemStatus      `gorm:"type:varchar(20);not null;default:'active'"`
	RentedCount    int             `gorm:"not null;default:0"`
	BrokenCount    int             `gorm:"not null;default:0"`
	Rentable       bool            `gorm:"not null;default:true"`
	Expirable      bool            `gorm:"not null;default:false"`
	ExpirationDate *time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item with required fields and defaulted counters
func NewItem(name, sku string, unitPrice decimal.Decimal) (*Item, error) {
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		UnitPrice:         unitPrice,
		MinStockLevel:     DefaultMinStockLevel,
		Status:            ItemStatusActive,
		Rentable:          true,
	}, nil
}

// SetCategory assigns the item to a category (nil detaches it)
func (i *Item) SetCategory(categoryID *uuid.UUID) {
	i.CategoryID = categoryID
	i.Touch()
}

// SetLocation sets the storage location
func (i *Item) SetLocation(location string) error {
	if len(location) > 200 {
		return shared.NewDomainError("INVALID_LOCATION", "Location cannot exceed 200 characters")
	}
	i.Location = location
	i.Touch()
	return nil
}

// SetMinStockLevel sets the low-stock threshold for this item
func (i *Item) SetMinStockLevel(level int) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}
	i.MinStockLevel = level
	i.Touch()
	return nil
}

// SetExpiration marks the item as expirable with the given date
func (i *Item) SetExpiration(date *time.Time) {
	i.Expirable = date != nil
	i.ExpirationDate = date
	i.Touch()
}

// AdjustQuantity applies a signed stock delta
func (i *Item) AdjustQuantity(delta int) error {
	if i.Quantity+delta < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Quantity cannot go below zero")
	}
	i.Quantity += delta
	i.Touch()
	return nil
}

// Activate marks the item active
func (i *Item) Activate() {
	i.Status = ItemStatusActive
	i.Touch()
}

// Deactivate marks the item inactive
func (i *Item) Deactivate() {
	i.Status = ItemStatusInactive
	i.Touch()
}

// IsLowStock reports whether the quantity is at or below the item threshold
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinStockLevel
}

// StockValue returns quantity * unit price
func (i *Item) StockValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func validateItemName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Item SKU cannot be empty")
	}
	if len(sku) > 100 {
		return shared.NewDomainError("INVALID_SKU", "Item SKU cannot exceed 100 characters")
	}
	return nil
}

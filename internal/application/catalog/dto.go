package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/catalog"
)

// CreateCategoryRequest carries fields for creating a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest carries fields for updating a category
type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

// CategoryResponse is the API shape of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to its API shape
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateItemRequest carries fields for creating an item
type CreateItemRequest struct {
	Name           string     `json:"name" binding:"required,max=200"`
	SKU            string     `json:"sku" binding:"required,max=100"`
	Description    string     `json:"description"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Quantity       int        `json:"quantity" binding:"min=0"`
	UnitPrice      string     `json:"unit_price" binding:"required,decimal"`
	Location       string     `json:"location"`
	MinStockLevel  *int       `json:"min_stock_level"`
	Rentable       *bool      `json:"rentable"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// UpdateItemRequest carries fields for updating an item
type UpdateItemRequest struct {
	Name           string     `json:"name" binding:"required,max=200"`
	Description    string     `json:"description"`
	CategoryID     *uuid.UUID `json:"category_id"`
	UnitPrice      string     `json:"unit_price" binding:"required,decimal"`
	Location       string     `json:"location"`
	MinStockLevel  *int       `json:"min_stock_level"`
	Rentable       *bool      `json:"rentable"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// AdjustStockRequest applies a signed stock delta, logging a transaction
type AdjustStockRequest struct {
	Delta  int       `json:"delta" binding:"required"`
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Notes  string    `json:"notes"`
}

// ItemResponse is the API shape of an item
type ItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	SKU            string     `json:"sku"`
	Description    string     `json:"description"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Quantity       int        `json:"quantity"`
	UnitPrice      string     `json:"unit_price"`
	Location       string     `json:"location"`
	MinStockLevel  int        `json:"min_stock_level"`
	Status         string     `json:"status"`
	RentedCount    int        `json:"rented_count"`
	BrokenCount    int        `json:"broken_count"`
	Rentable       bool       `json:"rentable"`
	Expirable      bool       `json:"expirable"`
	ExpirationDate *time.Time `json:"expiration_date"`
	LowStock       bool       `json:"low_stock"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToItemResponse converts a domain item to its API shape
func ToItemResponse(i *catalog.Item) *ItemResponse {
	return &ItemResponse{
		ID:             i.ID,
		Name:           i.Name,
		SKU:            i.SKU,
		Description:    i.Description,
		CategoryID:     i.CategoryID,
		Quantity:       i.Quantity,
		UnitPrice:      i.UnitPrice.String(),
		Location:       i.Location,
		MinStockLevel:  i.MinStockLevel,
		Status:         string(i.Status),
		RentedCount:    i.RentedCount,
		BrokenCount:    i.BrokenCount,
		Rentable:       i.Rentable,
		Expirable:      i.Expirable,
		ExpirationDate: i.ExpirationDate,
		LowStock:       i.IsLowStock(),
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// ListFilter carries list query options shared by both services
type ListFilter struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	SortDir  string
}

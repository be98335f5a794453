package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemService handles item business operations. Stock adjustments write a
// stock transaction so the activity log stays consistent with quantities.
type ItemService struct {
	itemRepo     catalog.ItemRepository
	categoryRepo catalog.CategoryRepository
	txRepo       activity.TransactionRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository, categoryRepo catalog.CategoryRepository, txRepo activity.TransactionRepository) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
	}
}

// Create creates a new item
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be a decimal string")
	}

	item, err := catalog.NewItem(req.Name, req.SKU, price)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		item.SetCategory(req.CategoryID)
	}
	if req.Quantity > 0 {
		if err := item.AdjustQuantity(req.Quantity); err != nil {
			return nil, err
		}
	}
	item.Description = req.Description
	if err := item.SetLocation(req.Location); err != nil {
		return nil, err
	}
	if req.MinStockLevel != nil {
		if err := item.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}
	if req.Rentable != nil {
		item.Rentable = *req.Rentable
	}
	item.SetExpiration(req.ExpirationDate)

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// List retrieves items with pagination
func (s *ItemService) List(ctx context.Context, filter ListFilter) ([]ItemResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToItemResponse(&items[i]))
	}
	return responses, total, nil
}

// Update updates an item's descriptive fields
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be a decimal string")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
	}

	item.Name = req.Name
	item.Description = req.Description
	item.UnitPrice = price
	item.SetCategory(req.CategoryID)
	if err := item.SetLocation(req.Location); err != nil {
		return nil, err
	}
	if req.MinStockLevel != nil {
		if err := item.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}
	if req.Rentable != nil {
		item.Rentable = *req.Rentable
	}
	item.SetExpiration(req.ExpirationDate)

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// AdjustStock applies a signed quantity delta and records the movement as
// a stock transaction attributed to the acting user
func (s *ItemService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.AdjustQuantity(req.Delta); err != nil {
		return nil, err
	}

	txType := activity.TransactionTypeIn
	quantity := req.Delta
	if req.Delta < 0 {
		txType = activity.TransactionTypeOut
		quantity = -req.Delta
	}
	notes := req.Notes
	if notes == "" {
		notes = fmt.Sprintf("stock adjustment for %s", item.SKU)
	}

	tx, err := activity.NewStockTransaction(txType, quantity, req.UserID, &item.ID, notes)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	return ToItemResponse(item), nil
}

// Delete deletes an item
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, id)
}

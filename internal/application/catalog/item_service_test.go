package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newItemFixture(t *testing.T, quantity int) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem("Hammer", "HM-1", decimal.NewFromFloat(5.50))
	require.NoError(t, err)
	require.NoError(t, item.AdjustQuantity(quantity))
	return item
}

func TestItemService_Create(t *testing.T) {
	t.Run("creates item with category", func(t *testing.T) {
		itemRepo := &mockItemRepo{}
		catRepo := &mockCategoryRepo{}
		svc := NewItemService(itemRepo, catRepo, &mockTransactionRepo{})

		categoryID := uuid.New()
		catRepo.On("FindByID", mock.Anything, categoryID).Return(&catalog.Category{Name: "Tools"}, nil)
		itemRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Item")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateItemRequest{
			Name:       "Hammer",
			SKU:        "HM-1",
			UnitPrice:  "5.50",
			Quantity:   3,
			CategoryID: &categoryID,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Quantity)
		assert.Equal(t, "5.5", resp.UnitPrice)
		require.NotNil(t, resp.CategoryID)
		assert.Equal(t, categoryID, *resp.CategoryID)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		itemRepo := &mockItemRepo{}
		catRepo := &mockCategoryRepo{}
		svc := NewItemService(itemRepo, catRepo, &mockTransactionRepo{})

		categoryID := uuid.New()
		catRepo.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(context.Background(), CreateItemRequest{
			Name:       "Hammer",
			SKU:        "HM-1",
			UnitPrice:  "5.50",
			CategoryID: &categoryID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
		itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-decimal price", func(t *testing.T) {
		svc := NewItemService(&mockItemRepo{}, &mockCategoryRepo{}, &mockTransactionRepo{})

		_, err := svc.Create(context.Background(), CreateItemRequest{
			Name: "Hammer", SKU: "HM-1", UnitPrice: "cheap",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
	})
}

func TestItemService_AdjustStock(t *testing.T) {
	t.Run("positive delta records an inbound transaction", func(t *testing.T) {
		itemRepo := &mockItemRepo{}
		txRepo := &mockTransactionRepo{}
		svc := NewItemService(itemRepo, &mockCategoryRepo{}, txRepo)

		item := newItemFixture(t, 2)
		userID := uuid.New()

		itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		itemRepo.On("Save", mock.Anything, item).Return(nil)
		txRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx *activity.StockTransaction) bool {
			return tx.Type == activity.TransactionTypeIn && tx.Quantity == 5 &&
				tx.UserID == userID && tx.ItemID != nil && *tx.ItemID == item.ID
		})).Return(nil)

		resp, err := svc.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta: 5, UserID: userID,
		})

		require.NoError(t, err)
		assert.Equal(t, 7, resp.Quantity)
		txRepo.AssertExpectations(t)
	})

	t.Run("negative delta records an outbound transaction", func(t *testing.T) {
		itemRepo := &mockItemRepo{}
		txRepo := &mockTransactionRepo{}
		svc := NewItemService(itemRepo, &mockCategoryRepo{}, txRepo)

		item := newItemFixture(t, 10)

		itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		itemRepo.On("Save", mock.Anything, item).Return(nil)
		txRepo.On("Save", mock.Anything, mock.MatchedBy(func(tx *activity.StockTransaction) bool {
			return tx.Type == activity.TransactionTypeOut && tx.Quantity == 4
		})).Return(nil)

		resp, err := svc.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta: -4, UserID: uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, 6, resp.Quantity)
	})

	t.Run("insufficient stock writes nothing", func(t *testing.T) {
		itemRepo := &mockItemRepo{}
		txRepo := &mockTransactionRepo{}
		svc := NewItemService(itemRepo, &mockCategoryRepo{}, txRepo)

		item := newItemFixture(t, 2)
		itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)

		_, err := svc.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta: -5, UserID: uuid.New(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestItemService_Update(t *testing.T) {
	t.Run("detaching the category passes nil through", func(t *testing.T) {
		itemRepo := &mockItemRepo{}
		catRepo := &mockCategoryRepo{}
		svc := NewItemService(itemRepo, catRepo, &mockTransactionRepo{})

		item := newItemFixture(t, 0)
		categoryID := uuid.New()
		item.SetCategory(&categoryID)

		itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		itemRepo.On("Save", mock.Anything, item).Return(nil)

		resp, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{
			Name: "Hammer", UnitPrice: "6.00", CategoryID: nil,
		})

		require.NoError(t, err)
		assert.Nil(t, resp.CategoryID)
		catRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		itemRepo := &mockItemRepo{}
		svc := NewItemService(itemRepo, &mockCategoryRepo{}, &mockTransactionRepo{})

		item := newItemFixture(t, 0)
		itemRepo.On("FindByID", mock.Anything, item.ID).Return(item, nil)

		_, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{
			Name: "Hammer", UnitPrice: "-1",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
	})
}

package report

import (
	"context"

	appactivity "github.com/invtrack/backend/internal/application/activity"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/invtrack/backend/internal/domain/shared"
)

// DashboardResponse aggregates the headline numbers shown on the landing page
type DashboardResponse struct {
	TotalItems         int64                             `json:"total_items"`
	TotalCategories    int64                             `json:"total_categories"`
	TotalUsers         int64                             `json:"total_users"`
	LowStockItems      int64                             `json:"low_stock_items"`
	TotalStockValue    string                            `json:"total_stock_value"`
	RecentTransactions []appactivity.TransactionResponse `json:"recent_transactions"`
}

// DashboardService assembles summary statistics across the store
type DashboardService struct {
	itemRepo     catalog.ItemRepository
	categoryRepo catalog.CategoryRepository
	userRepo     identity.UserRepository
	txRepo       activity.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	itemRepo catalog.ItemRepository,
	categoryRepo catalog.CategoryRepository,
	userRepo identity.UserRepository,
	txRepo activity.TransactionRepository,
) *DashboardService {
	return &DashboardService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		txRepo:       txRepo,
	}
}

const recentTransactionLimit = 10

// GetDashboard collects counts, stock value and the most recent movements
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	filter := shared.Filter{Page: 1, PageSize: 1}

	items, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.itemRepo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stockValue, err := s.itemRepo.SumStockValue(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.txRepo.FindRecent(ctx, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	recentResponses := make([]appactivity.TransactionResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, *appactivity.ToTransactionResponse(&recent[i]))
	}

	return &DashboardResponse{
		TotalItems:         items,
		TotalCategories:    categories,
		TotalUsers:         users,
		LowStockItems:      lowStock,
		TotalStockValue:    stockValue.StringFixed(2),
		RecentTransactions: recentResponses,
	}, nil
}

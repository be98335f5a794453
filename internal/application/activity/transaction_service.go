package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/invtrack/backend/internal/domain/shared"
)

// CreateTransactionRequest carries fields for recording a stock movement
type CreateTransactionRequest struct {
	Type     string     `json:"type" binding:"required,oneof=in out adjustment"`
	Quantity int        `json:"quantity" binding:"min=0"`
	UserID   uuid.UUID  `json:"user_id" binding:"required"`
	ItemID   *uuid.UUID `json:"item_id"`
	Notes    string     `json:"notes"`
}

// TransactionResponse is the API shape of a stock transaction
type TransactionResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	UserID    uuid.UUID  `json:"user_id"`
	ItemID    *uuid.UUID `json:"item_id"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToTransactionResponse converts a domain transaction to its API shape
func ToTransactionResponse(t *activity.StockTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		Type:      string(t.Type),
		Quantity:  t.Quantity,
		UserID:    t.UserID,
		ItemID:    t.ItemID,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
	}
}

// TransactionService handles the stock activity log
type TransactionService struct {
	txRepo   activity.TransactionRepository
	userRepo identity.UserRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(txRepo activity.TransactionRepository, userRepo identity.UserRepository) *TransactionService {
	return &TransactionService{
		txRepo:   txRepo,
		userRepo: userRepo,
	}
}

// Create records a stock movement attributed to an existing user
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, shared.NewDomainError("INVALID_USER", "Transaction user not found")
	}

	tx, err := activity.NewStockTransaction(activity.TransactionType(req.Type), req.Quantity, req.UserID, req.ItemID, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return ToTransactionResponse(tx), nil
}

// List retrieves transactions with pagination
func (s *TransactionService) List(ctx context.Context, page, pageSize int) ([]TransactionResponse, int64, error) {
	filter := shared.DefaultFilter()
	if page > 0 && pageSize > 0 {
		filter.Page = page
		filter.PageSize = pageSize
	}

	txs, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		responses = append(responses, *ToTransactionResponse(&txs[i]))
	}
	return responses, total, nil
}

// ListByItem retrieves transactions touching one item
func (s *TransactionService) ListByItem(ctx context.Context, itemID uuid.UUID, page, pageSize int) ([]TransactionResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 && pageSize > 0 {
		filter.Page = page
		filter.PageSize = pageSize
	}

	txs, err := s.txRepo.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		responses = append(responses, *ToTransactionResponse(&txs[i]))
	}
	return responses, nil
}

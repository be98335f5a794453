package activity

import (
	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/shared"
)

// TransactionType classifies a stock movement
type TransactionType string

const (
	TransactionTypeIn         TransactionType = "in"
	TransactionTypeOut        TransactionType = "out"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// IsValid reports whether the transaction type is one of the known kinds
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjustment:
		return true
	}
	return false
}

// StockTransaction is an append-only record of a stock movement.
// Transactions are exported in backups but never re-imported; activity
// logs are not meant to be replayed.
type StockTransaction struct {
	shared.BaseAggregateRoot
	Type     TransactionType `gorm:"type:varchar(20);not null;index"`
	Quantity int             `gorm:"not null"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID   *uuid.UUID      `gorm:"type:uuid;index"`
	Notes    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "transactions"
}

// NewStockTransaction records a stock movement attributed to a user
func NewStockTransaction(txType TransactionType, quantity int, userID uuid.UUID, itemID *uuid.UUID, notes string) (*StockTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type must be in, out, or adjustment")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transaction quantity cannot be negative")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Transaction must be attributed to a user")
	}

	return &StockTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              txType,
		Quantity:          quantity,
		UserID:            userID,
		ItemID:            itemID,
		Notes:             notes,
	}, nil
}

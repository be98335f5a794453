package backup

import (
	"time"

	"github.com/google/uuid"
)

// Document is the portable serialized form of the entire data set.
// Export writes all four collections plus a timestamp; import reads only
// categories, users, and items — transactions are activity logs and are
// deliberately never replayed.
type Document struct {
	Categories   []CategoryRecord    `json:"categories"`
	Users        []UserRecord        `json:"users"`
	Items        []ItemRecord        `json:"items"`
	Transactions []TransactionRecord `json:"transactions"`
	ExportDate   string              `json:"exportDate"`
}

// CategoryRecord is the wire shape of an exported category
type CategoryRecord struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

// UserRecord is the wire shape of an exported user. Password hashes never
// leave the store.
type UserRecord struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Role     string    `json:"role"`
	IsActive bool      `json:"isActive"`
}

// ItemRecord is the wire shape of an exported item
type ItemRecord struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	SKU            string     `json:"sku"`
	Description    string     `json:"description"`
	CategoryID     *uuid.UUID `json:"categoryId"`
	Quantity       int        `json:"quantity"`
	UnitPrice      string     `json:"unitPrice"`
	Location       string     `json:"location"`
	MinStockLevel  int        `json:"minStockLevel"`
	Status         string     `json:"status"`
	RentedCount    int        `json:"rentedCount"`
	BrokenCount    int        `json:"brokenCount"`
	Rentable       bool       `json:"rentable"`
	Expirable      bool       `json:"expirable"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

// TransactionRecord is the wire shape of an exported stock transaction
type TransactionRecord struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	UserID    uuid.UUID  `json:"userId"`
	ItemID    *uuid.UUID `json:"itemId"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CandidateCategory is an inbound category before validation
type CandidateCategory struct {
	ID          SourceID `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
}

// CandidateUser is an inbound user before validation
type CandidateUser struct {
	ID       SourceID `json:"id"`
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Role     string   `json:"role"`
	IsActive *bool    `json:"isActive"`
}

// CandidateItem is an inbound item before validation. Numeric and boolean
// fields may be absent and are normalized to defaults by the reconciler.
type CandidateItem struct {
	ID             SourceID   `json:"id"`
	Name           string     `json:"name"`
	SKU            string     `json:"sku"`
	Description    string     `json:"description"`
	CategoryID     SourceID   `json:"categoryId"`
	Quantity       FlexInt    `json:"quantity"`
	UnitPrice      FlexString `json:"unitPrice"`
	Location       string     `json:"location"`
	MinStockLevel  FlexInt    `json:"minStockLevel"`
	Status         string     `json:"status"`
	RentedCount    FlexInt    `json:"rentedCount"`
	BrokenCount    FlexInt    `json:"brokenCount"`
	Rentable       *bool      `json:"rentable"`
	Expirable      *bool      `json:"expirable"`
	ExpirationDate FlexDate   `json:"expirationDate"`
}

// CandidateSnapshot is the decoded, typed form of an inbound snapshot,
// produced by RawSnapshot.Candidates after shape validation
type CandidateSnapshot struct {
	Categories []CandidateCategory
	Users      []CandidateUser
	Items      []CandidateItem
}

package backup

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/identity"
)

// Encode projects the full data set into a portable document. Pure
// projection, no validation; the export timestamp is attached here.
func Encode(categories []catalog.Category, users []identity.User, items []catalog.Item, transactions []activity.StockTransaction) *Document {
	doc := &Document{
		Categories:   make([]CategoryRecord, 0, len(categories)),
		Users:        make([]UserRecord, 0, len(users)),
		Items:        make([]ItemRecord, 0, len(items)),
		Transactions: make([]TransactionRecord, 0, len(transactions)),
		ExportDate:   time.Now().UTC().Format(time.RFC3339),
	}

	for _, c := range categories {
		doc.Categories = append(doc.Categories, CategoryRecord{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}

	for _, u := range users {
		doc.Users = append(doc.Users, UserRecord{
			ID:       u.ID,
			Username: u.Username,
			FullName: u.FullName,
			Role:     u.Role,
			IsActive: u.IsActive,
		})
	}

	for _, i := range items {
		doc.Items = append(doc.Items, ItemRecord{
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
		})
	}

	for _, t := range transactions {
		doc.Transactions = append(doc.Transactions, TransactionRecord{
			ID:        t.ID,
			Type:      string(t.Type),
			Quantity:  t.Quantity,
			UserID:    t.UserID,
			ItemID:    t.ItemID,
			Notes:     t.Notes,
			CreatedAt: t.CreatedAt,
		})
	}

	return doc
}

// RawSnapshot holds the three import-relevant collections as raw JSON.
// Missing keys are left nil and treated as empty sequences; whether each
// present key actually is a sequence is the reconciler's shape check.
type RawSnapshot struct {
	Categories json.RawMessage
	Users      json.RawMessage
	Items      json.RawMessage
}

// Decode parses an inbound snapshot document. It accepts the collections at
// the top level or nested one level under a "data" wrapper key, defaults
// missing keys to empty, and ignores extra fields such as "transactions"
// and "exportDate". It fails only with ErrMalformedDocument when the
// payload is not parseable JSON (including invalid UTF-8 input).
func Decode(raw []byte) (*RawSnapshot, error) {
	if !utf8.Valid(raw) {
		return nil, ErrMalformedDocument
	}

	// json.Unmarshal accepts a bare "null" and leaves the map nil; that is
	// not a document, so it fails the same way non-object payloads do
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, ErrMalformedDocument
	}

	// A "data" wrapper that itself parses as an object replaces the top level
	if wrapped, ok := doc["data"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(wrapped, &inner); err == nil && inner != nil {
			doc = inner
		}
	}

	return &RawSnapshot{
		Categories: doc["categories"],
		Users:      doc["users"],
		Items:      doc["items"],
	}, nil
}

// Candidates performs the shape validation step: each collection must be a
// sequence of records. A missing collection is an empty sequence; anything
// else yields an INVALID_FORMAT error naming the offending kind.
func (rs *RawSnapshot) Candidates() (*CandidateSnapshot, error) {
	cs := &CandidateSnapshot{
		Categories: []CandidateCategory{},
		Users:      []CandidateUser{},
		Items:      []CandidateItem{},
	}

	if rs.Categories != nil {
		if err := json.Unmarshal(rs.Categories, &cs.Categories); err != nil {
			return nil, NewInvalidFormatError(KindCategory)
		}
	}
	if rs.Users != nil {
		if err := json.Unmarshal(rs.Users, &cs.Users); err != nil {
			return nil, NewInvalidFormatError(KindUser)
		}
	}
	if rs.Items != nil {
		if err := json.Unmarshal(rs.Items, &cs.Items); err != nil {
			return nil, NewInvalidFormatError(KindItem)
		}
	}

	return cs, nil
}

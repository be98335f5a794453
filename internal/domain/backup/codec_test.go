package backup

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("accepts top-level collections", func(t *testing.T) {
		raw := []byte(`{"categories":[{"name":"Tools"}],"users":[],"items":[]}`)

		snap, err := Decode(raw)

		require.NoError(t, err)
		assert.NotNil(t, snap.Categories)
		assert.NotNil(t, snap.Users)
		assert.NotNil(t, snap.Items)
	})

	t.Run("unwraps data envelope", func(t *testing.T) {
		raw := []byte(`{"success":true,"data":{"categories":[{"name":"Tools"}],"users":[{"username":"a"}]}}`)

		snap, err := Decode(raw)
		require.NoError(t, err)

		cs, err := snap.Candidates()
		require.NoError(t, err)
		require.Len(t, cs.Categories, 1)
		assert.Equal(t, "Tools", cs.Categories[0].Name)
		assert.Len(t, cs.Users, 1)
	})

	t.Run("missing collections default to empty", func(t *testing.T) {
		snap, err := Decode([]byte(`{}`))
		require.NoError(t, err)

		cs, err := snap.Candidates()
		require.NoError(t, err)
		assert.Empty(t, cs.Categories)
		assert.Empty(t, cs.Users)
		assert.Empty(t, cs.Items)
	})

	t.Run("ignores extra fields", func(t *testing.T) {
		raw := []byte(`{"users":[],"transactions":[{"id":1}],"exportDate":"2025-01-01"}`)

		snap, err := Decode(raw)
		require.NoError(t, err)

		_, err = snap.Candidates()
		assert.NoError(t, err)
	})

	t.Run("rejects unparseable payload", func(t *testing.T) {
		_, err := Decode([]byte(`{"users": [`))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeMalformedDocument, domainErr.Code)
	})

	t.Run("rejects non-object payload", func(t *testing.T) {
		_, err := Decode([]byte(`[1,2,3]`))
		assert.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("rejects bare null document", func(t *testing.T) {
		_, err := Decode([]byte(`null`))
		assert.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("null data wrapper falls back to top level", func(t *testing.T) {
		snap, err := Decode([]byte(`{"data":null,"users":[{"username":"a"}]}`))
		require.NoError(t, err)

		cs, err := snap.Candidates()
		require.NoError(t, err)
		assert.Len(t, cs.Users, 1)
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		_, err := Decode([]byte{0xff, 0xfe, '{', '}'})
		assert.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("scalar data wrapper falls back to top level", func(t *testing.T) {
		snap, err := Decode([]byte(`{"data":"nothing here","users":[{"username":"a"}]}`))
		require.NoError(t, err)

		cs, err := snap.Candidates()
		require.NoError(t, err)
		assert.Len(t, cs.Users, 1)
	})
}

func TestRawSnapshot_Candidates(t *testing.T) {
	t.Run("names the offending collection", func(t *testing.T) {
		snap := &RawSnapshot{Users: json.RawMessage(`"not an array"`)}

		_, err := snap.Candidates()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeInvalidFormat, domainErr.Code)
		assert.Contains(t, domainErr.Message, "users")
	})

	t.Run("rejects object where an array is expected", func(t *testing.T) {
		snap := &RawSnapshot{Categories: json.RawMessage(`{"name":"Tools"}`)}

		_, err := snap.Candidates()

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, ErrCodeInvalidFormat, domainErr.Code)
		assert.Contains(t, domainErr.Message, "categories")
	})

	t.Run("decodes flexible item fields", func(t *testing.T) {
		snap := &RawSnapshot{Items: json.RawMessage(
			`[{"id":7,"name":"Hammer","sku":"HM-1","categoryId":"3","quantity":"10","unitPrice":19.99}]`)}

		cs, err := snap.Candidates()

		require.NoError(t, err)
		require.Len(t, cs.Items, 1)
		it := cs.Items[0]
		assert.Equal(t, "7", it.ID.String())
		assert.Equal(t, "3", it.CategoryID.String())
		assert.Equal(t, 10, it.Quantity.Or(0))
		assert.Equal(t, "19.99", it.UnitPrice.String())
	})
}

func TestEncode(t *testing.T) {
	t.Run("projects all four collections", func(t *testing.T) {
		cat := catalog.Category{Name: "Tools"}
		cat.ID = uuid.New()

		user := identity.User{Username: "alice", FullName: "Alice", Role: "admin", IsActive: true}
		user.ID = uuid.New()

		item := catalog.Item{
			Name:      "Hammer",
			SKU:       "HM-1",
			Quantity:  3,
			UnitPrice: decimal.NewFromFloat(19.99),
			Status:    catalog.ItemStatusActive,
		}
		item.ID = uuid.New()

		doc := Encode([]catalog.Category{cat}, []identity.User{user}, []catalog.Item{item}, nil)

		require.Len(t, doc.Categories, 1)
		require.Len(t, doc.Users, 1)
		require.Len(t, doc.Items, 1)
		assert.Empty(t, doc.Transactions)
		assert.Equal(t, "19.99", doc.Items[0].UnitPrice)

		exported, err := time.Parse(time.RFC3339, doc.ExportDate)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), exported, time.Minute)
	})

	t.Run("never carries password material", func(t *testing.T) {
		user := identity.User{Username: "alice", PasswordHash: "secret-hash"}

		doc := Encode(nil, []identity.User{user}, nil, nil)

		data, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "secret-hash")
	})

	t.Run("export body round-trips through decode", func(t *testing.T) {
		cat := catalog.Category{Name: "Tools"}
		cat.ID = uuid.New()
		doc := Encode([]catalog.Category{cat}, nil, nil, nil)

		data, err := json.Marshal(doc)
		require.NoError(t, err)

		snap, err := Decode(data)
		require.NoError(t, err)
		cs, err := snap.Candidates()
		require.NoError(t, err)
		require.Len(t, cs.Categories, 1)
		assert.Equal(t, "Tools", cs.Categories[0].Name)
	})
}

func TestBackupErrors(t *testing.T) {
	t.Run("write error unwraps its cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := &WriteError{Kind: KindItem, Cause: cause}

		assert.Equal(t, ErrCodeImportWriteFailed, err.Code())
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "item")
	})

	t.Run("read error unwraps its cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &ReadError{Kind: KindUser, Cause: cause}

		assert.Equal(t, ErrCodeExportReadFailed, err.Code())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("incomplete record names kind index and field", func(t *testing.T) {
		err := &IncompleteRecordError{Kind: KindUser, Index: 2, Field: "fullName"}

		assert.Equal(t, ErrCodeIncompleteRecord, err.Code())
		assert.Contains(t, err.Error(), "user record 2")
		assert.Contains(t, err.Error(), "fullName")
	})
}

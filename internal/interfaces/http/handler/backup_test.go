package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appbackup "github.com/invtrack/backend/internal/application/backup"
	"github.com/invtrack/backend/internal/domain/activity"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/invtrack/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBackupGateway is an in-memory Gateway good enough for endpoint tests
type fakeBackupGateway struct {
	categories   []catalog.Category
	users        []identity.User
	items        []catalog.Item
	transactions []activity.StockTransaction
	cleared      bool
	readErr      error
}

func (g *fakeBackupGateway) CreateCategory(_ context.Context, name string, description *string) (*catalog.Category, error) {
	c, err := catalog.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	g.categories = append(g.categories, *c)
	return c, nil
}

func (g *fakeBackupGateway) CreateUser(_ context.Context, username, fullName, role string, isActive bool) (*identity.User, error) {
	u, err := identity.NewUser(username, fullName, role, "test-password")
	if err != nil {
		return nil, err
	}
	u.IsActive = isActive
	g.users = append(g.users, *u)
	return u, nil
}

func (g *fakeBackupGateway) CreateItem(_ context.Context, params appbackup.ItemParams) (*catalog.Item, error) {
	i, err := catalog.NewItem(params.Name, params.SKU, params.UnitPrice)
	if err != nil {
		return nil, err
	}
	i.CategoryID = params.CategoryID
	i.Quantity = params.Quantity
	g.items = append(g.items, *i)
	return i, nil
}

func (g *fakeBackupGateway) ClearAllData(context.Context) error {
	g.cleared = true
	g.categories = nil
	g.users = nil
	g.items = nil
	g.transactions = nil
	return nil
}

func (g *fakeBackupGateway) EnsureDefaultAdmin(ctx context.Context) error {
	for _, u := range g.users {
		if u.Role == identity.RoleAdmin {
			return nil
		}
	}
	_, err := g.CreateUser(ctx, "admin", "Administrator", identity.RoleAdmin, true)
	return err
}

func (g *fakeBackupGateway) GetAllCategories(context.Context) ([]catalog.Category, error) {
	return g.categories, g.readErr
}

func (g *fakeBackupGateway) GetAllUsers(context.Context) ([]identity.User, error) {
	return g.users, g.readErr
}

func (g *fakeBackupGateway) GetAllItems(context.Context) ([]catalog.Item, error) {
	return g.items, g.readErr
}

func (g *fakeBackupGateway) GetAllTransactions(context.Context) ([]activity.StockTransaction, error) {
	return g.transactions, g.readErr
}

func newBackupTestServer(t *testing.T, gw *fakeBackupGateway) (*gin.Engine, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { store.Close() })

	logger := zap.NewNop()
	h := NewBackupHandler(
		appbackup.NewImportService(gw, 5, logger),
		appbackup.NewExportService(gw, nil, logger),
		store,
		time.Hour,
		logger,
	)

	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine, store
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(engine *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBackupHandler_Import(t *testing.T) {
	t.Run("valid snapshot rebuilds the store", func(t *testing.T) {
		gw := &fakeBackupGateway{}
		engine, _ := newBackupTestServer(t, gw)

		body := []byte(`{
			"categories": [{"id":1,"name":"Tools"}],
			"users": [{"username":"alice","fullName":"Alice","role":"admin"}],
			"items": [{"name":"Hammer","sku":"HM-1","unitPrice":"5.00","categoryId":1}]
		}`)

		w := doRequest(engine, http.MethodPost, "/api/v1/backup/import", body, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		var summary appbackup.ImportSummary
		require.NoError(t, json.Unmarshal(resp.Data, &summary))
		assert.Equal(t, 1, summary.CategoriesImported)
		assert.Equal(t, 1, summary.UsersImported)
		assert.Equal(t, 1, summary.ItemsImported)
		assert.True(t, gw.cleared)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		gw := &fakeBackupGateway{}
		engine, _ := newBackupTestServer(t, gw)

		w := doRequest(engine, http.MethodPost, "/api/v1/backup/import", []byte(`{"users": [`), nil)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "MALFORMED_DOCUMENT", resp.Error.Code)
		assert.False(t, gw.cleared)
	})

	t.Run("snapshot without users is rejected", func(t *testing.T) {
		gw := &fakeBackupGateway{}
		engine, _ := newBackupTestServer(t, gw)

		w := doRequest(engine, http.MethodPost, "/api/v1/backup/import",
			[]byte(`{"categories":[{"name":"Tools"}],"users":[]}`), nil)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NO_USERS", resp.Error.Code)
	})

	t.Run("replayed idempotency key is a conflict", func(t *testing.T) {
		gw := &fakeBackupGateway{}
		engine, _ := newBackupTestServer(t, gw)

		body := []byte(`{"users":[{"username":"alice","fullName":"Alice","role":"admin"}]}`)
		headers := map[string]string{IdempotencyKeyHeader: "restore-2026-08"}

		first := doRequest(engine, http.MethodPost, "/api/v1/backup/import", body, headers)
		require.Equal(t, http.StatusOK, first.Code)

		second := doRequest(engine, http.MethodPost, "/api/v1/backup/import", body, headers)
		require.Equal(t, http.StatusConflict, second.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "DUPLICATE_REQUEST", resp.Error.Code)
	})

	t.Run("requests without a key are never deduplicated", func(t *testing.T) {
		gw := &fakeBackupGateway{}
		engine, _ := newBackupTestServer(t, gw)

		body := []byte(`{"users":[{"username":"alice","fullName":"Alice","role":"admin"}]}`)

		first := doRequest(engine, http.MethodPost, "/api/v1/backup/import", body, nil)
		second := doRequest(engine, http.MethodPost, "/api/v1/backup/import", body, nil)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
	})
}

func TestBackupHandler_Export(t *testing.T) {
	t.Run("exports the full data set", func(t *testing.T) {
		gw := &fakeBackupGateway{}
		cat, _ := catalog.NewCategory("Tools", nil)
		gw.categories = []catalog.Category{*cat}
		item, _ := catalog.NewItem("Hammer", "HM-1", decimal.NewFromFloat(5))
		gw.items = []catalog.Item{*item}

		engine, _ := newBackupTestServer(t, gw)

		w := doRequest(engine, http.MethodGet, "/api/v1/backup/export", nil, nil)

		require.Equal(t, http.StatusOK, w.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Contains(t, string(resp.Data), `"categories"`)
		assert.Contains(t, string(resp.Data), `"exportDate"`)
	})

	t.Run("read failure is a server error", func(t *testing.T) {
		gw := &fakeBackupGateway{readErr: assert.AnError}
		engine, _ := newBackupTestServer(t, gw)

		w := doRequest(engine, http.MethodGet, "/api/v1/backup/export", nil, nil)

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "EXPORT_READ_FAILED", resp.Error.Code)
	})
}

func TestBackupHandler_RoundTrip(t *testing.T) {
	// an export response body must import as is
	source := &fakeBackupGateway{}
	_, err := source.CreateCategory(context.Background(), "Tools", nil)
	require.NoError(t, err)
	_, err = source.CreateUser(context.Background(), "alice", "Alice", "admin", true)
	require.NoError(t, err)

	engine, _ := newBackupTestServer(t, source)
	exported := doRequest(engine, http.MethodGet, "/api/v1/backup/export", nil, nil)
	require.Equal(t, http.StatusOK, exported.Code)

	target := &fakeBackupGateway{}
	targetEngine, _ := newBackupTestServer(t, target)

	w := doRequest(targetEngine, http.MethodPost, "/api/v1/backup/import", exported.Body.Bytes(), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, target.categories, 1)
	assert.Len(t, target.users, 1)
	assert.True(t, target.cleared)
}

package backup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/backup"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImportSummary reports how many candidates of each kind were processed.
// Counts are not adjusted for skipped duplicate users; SkippedUsers says
// how many of UsersImported were skipped as duplicates.
type ImportSummary struct {
	CategoriesImported int `json:"categoriesImported"`
	UsersImported      int `json:"usersImported"`
	ItemsImported      int `json:"itemsImported"`
	SkippedUsers       int `json:"skippedUsers,omitempty"`
}

// ImportService replays a validated snapshot against the persistence
// gateway. The ordering is the central safety property: validate the whole
// snapshot first, only then destroy and rebuild. Without an atomic commit a
// commit-phase failure leaves partial data; the service then guarantees an
// admin user exists before reporting the failure.
type ImportService struct {
	gateway         Gateway
	defaultMinStock int
	atomic          bool
	logger          *zap.Logger
}

// ImportOption configures an ImportService
type ImportOption func(*ImportService)

// WithAtomicCommit runs the clear+rebuild phase inside a single store
// transaction when the gateway supports it. A failed import then rolls back
// to the pre-import state instead of degrading to the minimal safe state.
func WithAtomicCommit() ImportOption {
	return func(s *ImportService) {
		s.atomic = true
	}
}

// NewImportService creates an ImportService. defaultMinStock is the
// threshold applied to items that carry no explicit minStockLevel.
func NewImportService(gateway Gateway, defaultMinStock int, logger *zap.Logger, opts ...ImportOption) *ImportService {
	s := &ImportService{
		gateway:         gateway,
		defaultMinStock: defaultMinStock,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import validates the snapshot and, only if the whole snapshot passes,
// clears the store and rebuilds it. Categories are created first so the
// source-to-new identifier map is complete before any item is created;
// that ordering is a hard dependency, not an optimization.
func (s *ImportService) Import(ctx context.Context, raw *backup.RawSnapshot) (*ImportSummary, error) {
	// Step 1: shape validation, no store access
	snap, err := raw.Candidates()
	if err != nil {
		return nil, err
	}

	// Step 2: items cannot be imported into a store with no categories to
	// reference (items with a null categoryId still need the collection)
	if len(snap.Items) > 0 && len(snap.Categories) == 0 {
		return nil, backup.ErrMissingCategories
	}

	// Step 3: the system requires at least one user to attribute activity to
	if len(snap.Users) == 0 {
		return nil, backup.ErrNoUsers
	}

	// Step 4: field completeness, categories then users then items; the
	// first failing record aborts before any writes
	if err := validateCandidates(snap); err != nil {
		return nil, err
	}

	// Step 5: destructive clear and rebuild. In atomic mode the whole phase
	// runs in one store transaction and a failure rolls back; otherwise a
	// failure leaves partial data and only the admin guarantee is restored.
	var summary *ImportSummary
	if ag, ok := s.gateway.(AtomicGateway); ok && s.atomic {
		err = ag.Atomically(ctx, func(gw Gateway) error {
			var commitErr error
			summary, commitErr = s.commit(ctx, gw, snap)
			return commitErr
		})
	} else {
		summary, err = s.commit(ctx, s.gateway, snap)
	}
	if err != nil {
		var writeErr *backup.WriteError
		if !errors.As(err, &writeErr) {
			writeErr = &backup.WriteError{Kind: backup.KindAll, Cause: err}
		}
		return nil, s.recoverAdmin(ctx, writeErr)
	}

	s.logger.Info("snapshot import completed",
		zap.Int("categories", summary.CategoriesImported),
		zap.Int("users", summary.UsersImported),
		zap.Int("items", summary.ItemsImported),
		zap.Int("skipped_users", summary.SkippedUsers),
	)

	return summary, nil
}

// commit is the destructive phase. Errors come back as *backup.WriteError
// carrying the kind that failed; the caller handles recovery.
func (s *ImportService) commit(ctx context.Context, gw Gateway, snap *backup.CandidateSnapshot) (*ImportSummary, error) {
	// Step 5a: destructive clear. Irreversible outside atomic mode, and
	// only reached after the entire snapshot validated.
	if err := gw.ClearAllData(ctx); err != nil {
		return nil, &backup.WriteError{Kind: backup.KindAll, Cause: err}
	}

	summary := &ImportSummary{}

	// Step 5b: categories, building the source-id map
	categoryIDs := make(map[string]uuid.UUID, len(snap.Categories))
	for _, c := range snap.Categories {
		created, err := gw.CreateCategory(ctx, c.Name, c.Description)
		if err != nil {
			return nil, &backup.WriteError{Kind: backup.KindCategory, Cause: err}
		}
		if c.ID.Present() {
			categoryIDs[c.ID.String()] = created.ID
		}
		summary.CategoriesImported++
	}

	// Step 5c: users. Duplicate usernames are expected when re-importing
	// over an existing admin seed; skip and continue. The user id map is
	// recorded for symmetry with categories even though transactions are
	// never replayed, so nothing consumes it today.
	userIDs := make(map[string]uuid.UUID, len(snap.Users))
	for _, u := range snap.Users {
		isActive := true
		if u.IsActive != nil {
			isActive = *u.IsActive
		}
		created, err := gw.CreateUser(ctx, u.Username, u.FullName, u.Role, isActive)
		if err != nil {
			if errors.Is(err, shared.ErrDuplicateUsername) {
				s.logger.Warn("skipping duplicate username during import",
					zap.String("username", u.Username))
				summary.SkippedUsers++
				summary.UsersImported++
				continue
			}
			return nil, &backup.WriteError{Kind: backup.KindUser, Cause: err}
		}
		if u.ID.Present() {
			userIDs[u.ID.String()] = created.ID
		}
		summary.UsersImported++
	}

	// Step 5d: items, remapping category references through the map built
	// in 5b
	for _, it := range snap.Items {
		params, err := s.itemParams(it, categoryIDs)
		if err != nil {
			return nil, &backup.WriteError{Kind: backup.KindItem, Cause: err}
		}
		if _, err := gw.CreateItem(ctx, params); err != nil {
			return nil, &backup.WriteError{Kind: backup.KindItem, Cause: err}
		}
		summary.ItemsImported++
	}

	// Step 5e: invariant restoration runs on the success path too
	if err := gw.EnsureDefaultAdmin(ctx); err != nil {
		return nil, &backup.WriteError{Kind: backup.KindAll, Cause: err}
	}

	return summary, nil
}

// recoverAdmin restores the admin-user guarantee after a failed commit and
// passes the original error through, marking it as restored only when the
// recovery itself succeeded. In atomic mode the rollback already preserved
// the pre-import state; calling EnsureDefaultAdmin again is harmless and
// keeps the guarantee unconditional.
func (s *ImportService) recoverAdmin(ctx context.Context, cause *backup.WriteError) error {
	if err := s.gateway.EnsureDefaultAdmin(ctx); err != nil {
		s.logger.Error("failed to restore default admin after import failure",
			zap.Error(err), zap.NamedError("import_error", cause))
	} else {
		cause.AdminRestored = true
		s.logger.Warn("import failed; admin-user guarantee restored", zap.Error(cause))
	}
	return cause
}

// itemParams normalizes a candidate item: absent counters default to zero,
// the stock threshold to the configured default, status to active, and the
// category reference is remapped through the snapshot's identifier map.
func (s *ImportService) itemParams(it backup.CandidateItem, categoryIDs map[string]uuid.UUID) (ItemParams, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(it.UnitPrice.String()))
	if err != nil {
		return ItemParams{}, shared.NewDomainError("INVALID_PRICE",
			"Item unit price is not a valid decimal: "+it.UnitPrice.String())
	}

	status := it.Status
	if status == "" {
		status = "active"
	}

	rentable := true
	if it.Rentable != nil {
		rentable = *it.Rentable
	}
	expirable := false
	if it.Expirable != nil {
		expirable = *it.Expirable
	}

	var expiration *time.Time
	if it.ExpirationDate.Present() {
		if it.ExpirationDate.Valid() {
			t := it.ExpirationDate.Time()
			expiration = &t
		} else {
			s.logger.Warn("unparseable expiration date on imported item, storing null",
				zap.String("sku", it.SKU), zap.String("value", it.ExpirationDate.Raw()))
		}
	}

	return ItemParams{
		Name:           it.Name,
		SKU:            it.SKU,
		Description:    it.Description,
		CategoryID:     s.resolveCategoryID(it, categoryIDs),
		Quantity:       it.Quantity.Or(0),
		UnitPrice:      price,
		Location:       it.Location,
		MinStockLevel:  it.MinStockLevel.Or(s.defaultMinStock),
		Status:         status,
		RentedCount:    it.RentedCount.Or(0),
		BrokenCount:    it.BrokenCount.Or(0),
		Rentable:       rentable,
		Expirable:      expirable,
		ExpirationDate: expiration,
	}, nil
}

// resolveCategoryID remaps a source category reference to the identifier
// assigned during this import. An unmapped value passes through unchanged
// when it already is a store identifier (an item referencing a category
// outside the snapshot); anything else cannot live in the foreign-key
// column and is stored as null.
func (s *ImportService) resolveCategoryID(it backup.CandidateItem, categoryIDs map[string]uuid.UUID) *uuid.UUID {
	if !it.CategoryID.Present() {
		return nil
	}
	source := it.CategoryID.String()
	if mapped, ok := categoryIDs[source]; ok {
		return &mapped
	}
	if passthrough, err := uuid.Parse(source); err == nil {
		return &passthrough
	}
	s.logger.Warn("unmapped category reference on imported item, storing null",
		zap.String("sku", it.SKU), zap.String("category_id", source))
	return nil
}

// validateCandidates checks field completeness kind by kind. No partial
// validation results are retained; the caller gets the first failure only.
func validateCandidates(snap *backup.CandidateSnapshot) error {
	for idx, c := range snap.Categories {
		if c.Name == "" {
			return &backup.IncompleteRecordError{Kind: backup.KindCategory, Index: idx, Field: "name"}
		}
	}
	for idx, u := range snap.Users {
		switch {
		case u.Username == "":
			return &backup.IncompleteRecordError{Kind: backup.KindUser, Index: idx, Field: "username"}
		case u.FullName == "":
			return &backup.IncompleteRecordError{Kind: backup.KindUser, Index: idx, Field: "fullName"}
		case u.Role == "":
			return &backup.IncompleteRecordError{Kind: backup.KindUser, Index: idx, Field: "role"}
		}
	}
	for idx, it := range snap.Items {
		switch {
		case it.Name == "":
			return &backup.IncompleteRecordError{Kind: backup.KindItem, Index: idx, Field: "name"}
		case it.SKU == "":
			return &backup.IncompleteRecordError{Kind: backup.KindItem, Index: idx, Field: "sku"}
		case it.UnitPrice.IsEmpty():
			return &backup.IncompleteRecordError{Kind: backup.KindItem, Index: idx, Field: "unitPrice"}
		}
	}
	return nil
}

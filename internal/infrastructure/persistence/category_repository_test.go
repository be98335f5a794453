package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a gorm DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func categoryRows(id uuid.UUID, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "description"}).
		AddRow(id, time.Now(), time.Now(), 1, name, nil)
}

func TestGormCategoryRepository_FindByID(t *testing.T) {
	t.Run("finds existing category", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(categoryRows(id, "Tools"))

		category, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, category.ID)
		assert.Equal(t, "Tools", category.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		category, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, category)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCategoryRepository_FindAll(t *testing.T) {
	t.Run("orders by allowlisted column with pagination", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY name DESC LIMIT \$1`).
			WithArgs(10).
			WillReturnRows(categoryRows(uuid.New(), "Tools"))

		categories, err := repo.FindAll(context.Background(), shared.Filter{
			Page: 1, PageSize: 10, OrderBy: "name", OrderDir: "desc",
		})

		require.NoError(t, err)
		assert.Len(t, categories, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unlisted order column falls back to name", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY name ASC`).
			WillReturnRows(categoryRows(uuid.New(), "Tools"))

		_, err := repo.FindAll(context.Background(), shared.Filter{
			OrderBy: "password; DROP TABLE users",
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search filters by name", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE name ILIKE \$1 ORDER BY name ASC`).
			WithArgs("%tool%").
			WillReturnRows(categoryRows(uuid.New(), "Tools"))

		_, err := repo.FindAll(context.Background(), shared.Filter{Search: "tool"})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	t.Run("deletes existing category", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("missing category is not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), shared.ErrNotFound)
	})
}

func TestGormCategoryRepository_DeleteAll(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormCategoryRepository(db)

	mock.ExpectExec(`DELETE FROM "categories" WHERE 1 = 1`).
		WillReturnResult(sqlmock.NewResult(0, 12))

	require.NoError(t, repo.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCategoryRepository_Count(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormCategoryRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(context.Background(), shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestGormCategoryRepository_InterfaceCompliance(t *testing.T) {
	db, _, mockDB := newMockDB(t)
	defer mockDB.Close()

	var _ catalog.CategoryRepository = NewGormCategoryRepository(db)
}

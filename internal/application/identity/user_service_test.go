package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func adminFixture(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("root", "Root", identity.RoleAdmin, "s3cret-pass")
	require.NoError(t, err)
	return user
}

func TestUserService_Create(t *testing.T) {
	t.Run("creates user", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "Alice", FullName: "Alice Smith", Role: "staff", Password: "s3cret-pass",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", resp.Username)
		assert.True(t, resp.IsActive)
	})

	t.Run("duplicate username surfaces as conflict", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		repo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrDuplicateUsername)

		_, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "alice", FullName: "Alice", Role: "staff", Password: "s3cret-pass",
		})

		assert.ErrorIs(t, err, shared.ErrDuplicateUsername)
	})

	t.Run("explicit inactive flag is honored", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		inactive := false
		repo.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return !u.IsActive
		})).Return(nil)

		resp, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "bob", FullName: "Bob", Role: "staff", Password: "s3cret-pass", IsActive: &inactive,
		})

		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("blocks demoting the only admin", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		admin := adminFixture(t)
		repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
		repo.On("CountByRole", mock.Anything, identity.RoleAdmin).Return(int64(1), nil)

		_, err := svc.Update(context.Background(), admin.ID, UpdateUserRequest{
			FullName: "Root", Role: "staff",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "LAST_ADMIN", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("allows demotion when another admin remains", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		admin := adminFixture(t)
		repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
		repo.On("CountByRole", mock.Anything, identity.RoleAdmin).Return(int64(2), nil)
		repo.On("Save", mock.Anything, admin).Return(nil)

		resp, err := svc.Update(context.Background(), admin.ID, UpdateUserRequest{
			FullName: "Root", Role: "staff",
		})

		require.NoError(t, err)
		assert.Equal(t, "staff", resp.Role)
	})

	t.Run("role change on non-admin skips the admin count", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		user, err := identity.NewUser("bob", "Bob", "staff", "s3cret-pass")
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		_, err = svc.Update(context.Background(), user.ID, UpdateUserRequest{
			FullName: "Bob", Role: identity.RoleAdmin,
		})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("blocks deleting the only admin", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		admin := adminFixture(t)
		repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
		repo.On("CountByRole", mock.Anything, identity.RoleAdmin).Return(int64(1), nil)

		err := svc.Delete(context.Background(), admin.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "LAST_ADMIN", domainErr.Code)
	})

	t.Run("deletes a staff user without counting admins", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewUserService(repo)

		user, err := identity.NewUser("bob", "Bob", "staff", "s3cret-pass")
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		repo.On("Delete", mock.Anything, user.ID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), user.ID))
		repo.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything)
	})
}

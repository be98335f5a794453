package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence.
// Save must return shared.ErrDuplicateUsername when the username is taken.
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every user; used by the backup restore path
	DeleteAll(ctx context.Context) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByRole counts users carrying the given role
	CountByRole(ctx context.Context, role string) (int64, error)
}

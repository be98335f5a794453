package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/identity"
	"github.com/invtrack/backend/internal/domain/shared"
)

// CreateUserRequest carries fields for creating a user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	FullName string `json:"full_name" binding:"required,max=200"`
	Role     string `json:"role" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=8"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest carries fields for updating a user
type UpdateUserRequest struct {
	FullName string `json:"full_name" binding:"required,max=200"`
	Role     string `json:"role" binding:"required,max=50"`
	IsActive *bool  `json:"is_active"`
}

// UserResponse is the API shape of a user; the password hash never leaves
// the service
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a domain user to its API shape
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserService handles user business operations
type UserService struct {
	userRepo identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create creates a new user. Unlike the backup import path, a duplicate
// username here is a user-visible conflict.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Username, req.FullName, req.Role, req.Password)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, page, pageSize int, search string) ([]UserResponse, int64, error) {
	filter := shared.DefaultFilter()
	if page > 0 && pageSize > 0 {
		filter.Page = page
		filter.PageSize = pageSize
	}
	filter.Search = search

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *ToUserResponse(&users[i]))
	}
	return responses, total, nil
}

// Update updates a user's profile. Demoting the last admin is rejected to
// keep the admin-user invariant outside the backup path too.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() && req.Role != identity.RoleAdmin {
		admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, shared.NewDomainError("LAST_ADMIN", "Cannot demote the only admin user")
		}
	}

	if err := user.Update(req.FullName, req.Role); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		user.SetActive(*req.IsActive)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Delete deletes a user; deleting the only admin is rejected
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return shared.NewDomainError("LAST_ADMIN", "Cannot delete the only admin user")
		}
	}

	return s.userRepo.Delete(ctx, id)
}

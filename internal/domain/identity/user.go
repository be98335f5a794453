package identity

import (
	"strings"

	"github.com/invtrack/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the recognized administrative role sentinel. Roles are
// otherwise free-form strings.
const RoleAdmin = "admin"

// Password cost for bcrypt
const bcryptCost = 12

// User represents a user in the system
type User struct {
	shared.BaseAggregateRoot
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	FullName     string `gorm:"type:varchar(200);not null"`
	Role         string `gorm:"type:varchar(50);not null"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with a bcrypt-hashed password
func NewUser(username, fullName, role, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot be empty")
	}
	if role == "" {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role cannot be empty")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		PasswordHash:      hash,
		IsActive:          true,
	}, nil
}

// IsAdmin reports whether the user carries the administrative role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Update updates the user's profile fields
func (u *User) Update(fullName, role string) error {
	if fullName == "" {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot be empty")
	}
	if role == "" {
		return shared.NewDomainError("INVALID_ROLE", "Role cannot be empty")
	}

	u.FullName = strings.TrimSpace(fullName)
	u.Role = role
	u.Touch()
	return nil
}

// SetActive toggles the active flag
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.Touch()
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	return nil
}

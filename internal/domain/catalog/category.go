package catalog

import (
	"github.com/invtrack/backend/internal/domain/shared"
)

// Category groups inventory items. Names are unique by convention only;
// the store does not enforce uniqueness.
type Category struct {
	shared.BaseAggregateRoot
	Name        string  `gorm:"type:varchar(100);not null;index"`
	Description *string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name string, description *string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// Update updates the category's basic information
func (c *Category) Update(name string, description *string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.Touch()

	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}

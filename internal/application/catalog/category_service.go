package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invtrack/backend/internal/domain/catalog"
	"github.com/invtrack/backend/internal/domain/shared"
)

// CategoryService handles category business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	itemRepo     catalog.ItemRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, itemRepo catalog.ItemRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// List retrieves categories with pagination
func (s *CategoryService) List(ctx context.Context, filter ListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *ToCategoryResponse(&categories[i]))
	}
	return responses, total, nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// Delete deletes a category; items referencing it block the delete
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	items, err := s.itemRepo.FindByCategory(ctx, id, shared.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category has items assigned to it")
	}

	return s.categoryRepo.Delete(ctx, id)
}

func toDomainFilter(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 && filter.PageSize > 0 {
		domainFilter.Page = filter.Page
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Search != "" {
		domainFilter.Search = filter.Search
	}
	if filter.SortBy != "" {
		domainFilter.OrderBy = filter.SortBy
	}
	if filter.SortDir != "" {
		domainFilter.OrderDir = filter.SortDir
	}
	return domainFilter
}

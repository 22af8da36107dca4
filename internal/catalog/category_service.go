package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
)

const categoryNotFound = "Category not found"

// CategoryEvictor drops cached data derived from a category.
type CategoryEvictor interface {
	InvalidateCategory(ctx context.Context, categoryID int64)
}

type CategoryService struct {
	categories CategoryRepository
	evictor    CategoryEvictor
}

// NewCategoryService wires category workflows. evictor may be nil.
func NewCategoryService(categories CategoryRepository, evictor CategoryEvictor) *CategoryService {
	return &CategoryService{categories: categories, evictor: evictor}
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return Category{}, apperror.NotFound(categoryNotFound)
	}
	return c, err
}

func (s *CategoryService) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	c, err := s.categories.GetByName(ctx, name)
	if errors.Is(err, apperror.ErrNotFound) {
		return Category{}, apperror.NotFound(categoryNotFound)
	}
	return c, err
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) AddCategory(ctx context.Context, name string) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, apperror.InvalidInput("category name is required")
	}
	c := Category{Name: name}
	if err := s.categories.Create(ctx, &c); err != nil {
		if errors.Is(err, apperror.ErrAlreadyExists) {
			return Category{}, apperror.AlreadyExists(name + " already exists")
		}
		return Category{}, err
	}
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, name string) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, apperror.InvalidInput("category name is required")
	}
	c := Category{ID: id, Name: name}
	if err := s.categories.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return Category{}, apperror.NotFound(categoryNotFound)
		case errors.Is(err, apperror.ErrAlreadyExists):
			return Category{}, apperror.AlreadyExists(name + " already exists")
		}
		return Category{}, err
	}
	if s.evictor != nil {
		s.evictor.InvalidateCategory(ctx, id)
	}
	return c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.categories.Delete(ctx, id)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return apperror.NotFound(categoryNotFound)
	case errors.Is(err, apperror.ErrInvalidState):
		return apperror.InvalidState(fmt.Sprintf("Category %d still has products", id))
	}
	return err
}

package service

import (
	"fmt"
	"strings"

	"github.com/ptarling/trolley/internal/access"
	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/store"
)

type CategoryService struct {
	categories *store.CategoryStore
	access     *access.Checker
}

func NewCategoryService(categories *store.CategoryStore, checker *access.Checker) *CategoryService {
	return &CategoryService{categories: categories, access: checker}
}

// Create adds a category to the list. Names are unique within a list;
// a duplicate is a Conflict the caller may retry with a different name.
func (s *CategoryService) Create(userID, listID int64, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidState("category name is required")
	}
	if _, err := s.access.RequireListAccess(userID, listID); err != nil {
		return nil, err
	}

	cat, err := s.categories.Create(listID, name, userID)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.Conflict("category %q already exists in this list", name)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (s *CategoryService) Get(userID, categoryID int64) (*model.Category, error) {
	return s.access.RequireCategoryAccess(userID, categoryID)
}

func (s *CategoryService) ListByList(userID, listID int64) ([]model.Category, error) {
	if _, err := s.access.RequireListAccess(userID, listID); err != nil {
		return nil, err
	}
	return s.categories.ListByList(listID)
}

// Update renames a category. A nil name is a no-op returning the current
// row; a rename revalidates uniqueness within the list.
func (s *CategoryService) Update(userID, categoryID int64, name *string) (*model.Category, error) {
	cat, err := s.access.RequireCategoryAccess(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return cat, nil
	}

	newName := strings.TrimSpace(*name)
	if newName == "" {
		return nil, apperr.InvalidState("category name is required")
	}
	if newName == cat.Name {
		return cat, nil
	}

	updated, err := s.categories.Rename(categoryID, newName, userID)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.Conflict("category %q already exists in this list", newName)
		}
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return updated, nil
}

// Delete removes an empty category. A category holding items cannot be
// deleted; the error reports the item count.
func (s *CategoryService) Delete(userID, categoryID int64) error {
	cat, err := s.access.RequireCategoryAccess(userID, categoryID)
	if err != nil {
		return err
	}

	count, err := s.categories.CountItems(categoryID)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return apperr.InvalidState("category %q still contains %d item(s)", cat.Name, count)
	}

	if err := s.categories.Delete(categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

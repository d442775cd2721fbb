package service

import (
	"fmt"
	"strings"

	"github.com/ptarling/trolley/internal/access"
	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/store"
)

type ItemService struct {
	items      *store.ItemStore
	categories *store.CategoryStore
	access     *access.Checker
}

func NewItemService(items *store.ItemStore, categories *store.CategoryStore, checker *access.Checker) *ItemService {
	return &ItemService{items: items, categories: categories, access: checker}
}

// ItemUpdate carries the optional fields of an item update. Nil fields are
// left unchanged.
type ItemUpdate struct {
	Name       *string
	Note       *string
	PriceMatch *bool
	IsTicked   *bool
	CategoryID *int64
}

func (u ItemUpdate) empty() bool {
	return u.Name == nil && u.Note == nil && u.PriceMatch == nil && u.IsTicked == nil && u.CategoryID == nil
}

// Create adds an unticked item to the category, stamping the creator.
func (s *ItemService) Create(userID, categoryID int64, name, note string, priceMatch bool) (*model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidState("item name is required")
	}
	if _, err := s.access.RequireCategoryAccess(userID, categoryID); err != nil {
		return nil, err
	}

	item, err := s.items.Create(categoryID, name, note, priceMatch, userID)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *ItemService) Get(userID, itemID int64) (*model.Item, error) {
	item, _, err := s.access.RequireItemAccess(userID, itemID)
	return item, err
}

func (s *ItemService) ListByList(userID, listID int64) ([]model.Item, error) {
	if _, err := s.access.RequireListAccess(userID, listID); err != nil {
		return nil, err
	}
	return s.items.ListByList(listID)
}

func (s *ItemService) ListByCategory(userID, categoryID int64) ([]model.Item, error) {
	if _, err := s.access.RequireCategoryAccess(userID, categoryID); err != nil {
		return nil, err
	}
	return s.items.ListByCategory(categoryID)
}

// GetInCategory finds an item by case-insensitive name within one category,
// or nil when no such item exists.
func (s *ItemService) GetInCategory(userID, categoryID int64, name string) (*model.Item, error) {
	if _, err := s.access.RequireCategoryAccess(userID, categoryID); err != nil {
		return nil, err
	}
	return s.items.GetInCategory(categoryID, name)
}

// SearchInList finds items by case-insensitive name within a list. All
// matches are returned; callers decide how to handle ambiguity.
func (s *ItemService) SearchInList(userID, listID int64, name string) ([]model.Item, error) {
	if _, err := s.access.RequireListAccess(userID, listID); err != nil {
		return nil, err
	}
	return s.items.SearchInList(listID, name)
}

// Update applies the non-nil fields and stamps the updater. Moving the item
// to a category in a different list is rejected; an item's list membership
// can only change by delete and re-create.
func (s *ItemService) Update(userID, itemID int64, upd ItemUpdate) (*model.Item, error) {
	item, cat, err := s.access.RequireItemAccess(userID, itemID)
	if err != nil {
		return nil, err
	}
	if upd.empty() {
		return item, nil
	}

	name := item.Name
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.InvalidState("item name is required")
		}
	}
	note := item.Note
	if upd.Note != nil {
		note = *upd.Note
	}
	priceMatch := item.PriceMatch
	if upd.PriceMatch != nil {
		priceMatch = *upd.PriceMatch
	}
	ticked := item.IsTicked
	if upd.IsTicked != nil {
		ticked = *upd.IsTicked
	}

	categoryID := item.CategoryID
	if upd.CategoryID != nil && *upd.CategoryID != item.CategoryID {
		dest, err := s.categories.GetByID(*upd.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get destination category: %w", err)
		}
		if dest == nil {
			return nil, apperr.NotFound("category %d not found", *upd.CategoryID)
		}
		if dest.ListID != cat.ListID {
			return nil, apperr.InvalidState("cannot move item to a category in a different list")
		}
		categoryID = dest.ID
	}

	updated, err := s.items.Update(itemID, name, note, priceMatch, ticked, categoryID, userID)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return updated, nil
}

// SetTicked marks an item acquired or not, stamping the updater.
func (s *ItemService) SetTicked(userID, itemID int64, ticked bool) (*model.Item, error) {
	if _, _, err := s.access.RequireItemAccess(userID, itemID); err != nil {
		return nil, err
	}
	item, err := s.items.SetTicked(itemID, ticked, userID)
	if err != nil {
		return nil, fmt.Errorf("set ticked: %w", err)
	}
	return item, nil
}

// ListIDForItem resolves the list an item belongs to through its category.
func (s *ItemService) ListIDForItem(userID int64, item *model.Item) (int64, error) {
	cat, err := s.access.RequireCategoryAccess(userID, item.CategoryID)
	if err != nil {
		return 0, err
	}
	return cat.ListID, nil
}

// Delete is an unconditional hard delete.
func (s *ItemService) Delete(userID, itemID int64) error {
	if _, _, err := s.access.RequireItemAccess(userID, itemID); err != nil {
		return err
	}
	if err := s.items.Delete(itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

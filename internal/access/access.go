// Package access answers one question: may this user touch this list?
// Every category and item check resolves the owning list first and reuses
// the membership check; mutating list metadata or membership requires
// ownership, which is stricter.
package access

import (
	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/store"
)

type Checker struct {
	lists      *store.ListStore
	categories *store.CategoryStore
	items      *store.ItemStore
}

func NewChecker(lists *store.ListStore, categories *store.CategoryStore, items *store.ItemStore) *Checker {
	return &Checker{lists: lists, categories: categories, items: items}
}

// HasListAccess reports whether a membership row exists for (user, list).
func (c *Checker) HasListAccess(userID, listID int64) (bool, error) {
	m, err := c.lists.GetMember(listID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// RequireListAccess returns the list if the user is a member of it.
// NotFound if the list does not exist, Forbidden if the user is not a member.
func (c *Checker) RequireListAccess(userID, listID int64) (*model.ShoppingList, error) {
	list, err := c.lists.GetByID(listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.ErrNotFound
	}
	ok, err := c.HasListAccess(userID, listID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrForbidden
	}
	return list, nil
}

// RequireOwner returns the list if the user owns it.
func (c *Checker) RequireOwner(userID, listID int64) (*model.ShoppingList, error) {
	list, err := c.lists.GetByID(listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.ErrNotFound
	}
	if list.OwnerID != userID {
		return nil, apperr.ErrForbidden
	}
	return list, nil
}

// RequireCategoryAccess returns the category if the user may touch it,
// via membership in its owning list.
func (c *Checker) RequireCategoryAccess(userID, categoryID int64) (*model.Category, error) {
	cat, err := c.categories.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.ErrNotFound
	}
	if _, err := c.RequireListAccess(userID, cat.ListID); err != nil {
		return nil, err
	}
	return cat, nil
}

// RequireItemAccess returns the item and its category if the user may
// touch it, via membership in the category's owning list.
func (c *Checker) RequireItemAccess(userID, itemID int64) (*model.Item, *model.Category, error) {
	item, err := c.items.GetByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, apperr.ErrNotFound
	}
	cat, err := c.categories.GetByID(item.CategoryID)
	if err != nil {
		return nil, nil, err
	}
	if cat == nil {
		return nil, nil, apperr.ErrNotFound
	}
	if _, err := c.RequireListAccess(userID, cat.ListID); err != nil {
		return nil, nil, err
	}
	return item, cat, nil
}

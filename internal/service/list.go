// Package service holds the business rules for lists, categories, and items.
// Every operation takes the caller's user id and authorizes through the
// access checker before touching the store.
package service

import (
	"fmt"
	"strings"

	"github.com/ptarling/trolley/internal/access"
	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/store"
)

type ListService struct {
	lists  *store.ListStore
	users  *store.UserStore
	access *access.Checker
}

func NewListService(lists *store.ListStore, users *store.UserStore, checker *access.Checker) *ListService {
	return &ListService{lists: lists, users: users, access: checker}
}

// Create makes a new list owned by ownerID and shares it with the named
// users. All usernames are resolved before anything is created, so a bad
// username never leaves a half-shared list behind.
func (s *ListService) Create(ownerID int64, name, listType string, shareWith []string) (*model.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidState("list name is required")
	}
	switch listType {
	case "":
		listType = model.ListTypePrivate
	case model.ListTypePrivate, model.ListTypeShared:
	default:
		return nil, apperr.InvalidState("list type must be %q or %q", model.ListTypePrivate, model.ListTypeShared)
	}

	members, err := s.resolveShareTargets(ownerID, shareWith)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.Create(name, listType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}

	for _, u := range members {
		if _, err := s.lists.AddMember(list.ID, u.ID); err != nil {
			if store.IsUniqueViolation(err) {
				continue // username listed twice
			}
			return nil, fmt.Errorf("share list: %w", err)
		}
	}
	return list, nil
}

// resolveShareTargets maps usernames to users, dropping the owner if
// re-listed and failing if any username does not resolve.
func (s *ListService) resolveShareTargets(ownerID int64, usernames []string) ([]model.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	found, err := s.users.GetByUsernames(usernames)
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}

	byName := make(map[string]model.User, len(found))
	for _, u := range found {
		byName[u.Username] = u
	}

	var missing []string
	var members []model.User
	for _, name := range usernames {
		u, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if u.ID == ownerID {
			continue
		}
		members = append(members, u)
	}
	if len(missing) > 0 {
		return nil, apperr.NotFound("users not found: %s", strings.Join(missing, ", "))
	}
	return members, nil
}

func (s *ListService) Get(userID, listID int64) (*model.ShoppingList, error) {
	return s.access.RequireListAccess(userID, listID)
}

func (s *ListService) ListForUser(userID int64) ([]model.ShoppingList, error) {
	return s.lists.ListForUser(userID)
}

// Update changes list metadata. Owner only. Nil fields are left unchanged.
func (s *ListService) Update(userID, listID int64, name, listType *string) (*model.ShoppingList, error) {
	list, err := s.access.RequireOwner(userID, listID)
	if err != nil {
		return nil, err
	}

	newName := list.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return nil, apperr.InvalidState("list name is required")
		}
	}
	newType := list.ListType
	if listType != nil {
		if *listType != model.ListTypePrivate && *listType != model.ListTypeShared {
			return nil, apperr.InvalidState("list type must be %q or %q", model.ListTypePrivate, model.ListTypeShared)
		}
		newType = *listType
	}

	updated, err := s.lists.Update(listID, newName, newType)
	if err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	return updated, nil
}

// Delete removes the list and everything in it. Owner only.
func (s *ListService) Delete(userID, listID int64) error {
	if _, err := s.access.RequireOwner(userID, listID); err != nil {
		return err
	}
	if err := s.lists.Delete(listID); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

func (s *ListService) Members(userID, listID int64) ([]model.ListMemberInfo, error) {
	if _, err := s.access.RequireListAccess(userID, listID); err != nil {
		return nil, err
	}
	return s.lists.ListMembers(listID)
}

// AddMember shares the list with the named user. Owner only. Adding an
// existing member is a Conflict, not a silent no-op and not a duplicate row.
func (s *ListService) AddMember(ownerID, listID int64, username string) (*model.ListMemberInfo, error) {
	if _, err := s.access.RequireOwner(ownerID, listID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %q not found", username)
	}

	existing, err := s.lists.GetMember(listID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("user %q is already a member", username)
	}

	m, err := s.lists.AddMember(listID, user.ID)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.Conflict("user %q is already a member", username)
		}
		return nil, fmt.Errorf("add member: %w", err)
	}
	return &model.ListMemberInfo{ListID: m.ListID, UserID: m.UserID, Username: user.Username, AddedAt: m.AddedAt}, nil
}

// RemoveMember revokes a user's membership. Owner only. The owner's own
// membership can never be removed.
func (s *ListService) RemoveMember(ownerID, listID, userID int64) error {
	list, err := s.access.RequireOwner(ownerID, listID)
	if err != nil {
		return err
	}
	if userID == list.OwnerID {
		return apperr.InvalidState("cannot remove the list owner")
	}

	removed, err := s.lists.RemoveMember(listID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if !removed {
		return apperr.NotFound("user %d is not a member", userID)
	}
	return nil
}

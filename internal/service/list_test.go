package service

import (
	"testing"

	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCreateSharesWithNamedUsers(t *testing.T) {
	f := setup(t)

	list, err := f.lists.Create(f.alice.ID, "Shared", model.ListTypeShared, []string{"bob"})
	require.NoError(t, err)

	members, err := f.lists.Members(f.alice.ID, list.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	// Bob can see the list too.
	got, err := f.lists.Get(f.bob.ID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, list.ID, got.ID)
}

func TestListCreateRejectsUnknownShareTarget(t *testing.T) {
	f := setup(t)

	_, err := f.lists.Create(f.alice.ID, "Shared", model.ListTypeShared, []string{"bob", "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")

	// Nothing was created when validation failed.
	lists, err := f.lists.ListForUser(f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestListCreateIgnoresOwnerInShareList(t *testing.T) {
	f := setup(t)

	list, err := f.lists.Create(f.alice.ID, "Mine", model.ListTypeShared, []string{"alice", "bob"})
	require.NoError(t, err)

	members, err := f.lists.Members(f.alice.ID, list.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestListGetDeniedForNonMember(t *testing.T) {
	f := setup(t)
	list, _ := f.newList(t)

	_, err := f.lists.Get(f.bob.ID, list.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestListGetMissing(t *testing.T) {
	f := setup(t)

	_, err := f.lists.Get(f.alice.ID, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListUpdateOwnerOnly(t *testing.T) {
	f := setup(t)
	list, err := f.lists.Create(f.alice.ID, "Shared", model.ListTypeShared, []string{"bob"})
	require.NoError(t, err)

	name := "Renamed"
	_, err = f.lists.Update(f.bob.ID, list.ID, &name, nil)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := f.lists.Update(f.alice.ID, list.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, model.ListTypeShared, updated.ListType)
}

func TestListDeleteOwnerOnly(t *testing.T) {
	f := setup(t)
	list, err := f.lists.Create(f.alice.ID, "Shared", model.ListTypeShared, []string{"bob"})
	require.NoError(t, err)

	err = f.lists.Delete(f.bob.ID, list.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, f.lists.Delete(f.alice.ID, list.ID))
	_, err = f.lists.Get(f.alice.ID, list.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListAddMember(t *testing.T) {
	f := setup(t)
	list, _ := f.newList(t)

	member, err := f.lists.AddMember(f.alice.ID, list.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", member.Username)

	// Adding again conflicts.
	_, err = f.lists.AddMember(f.alice.ID, list.ID, "bob")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Unknown users are rejected.
	_, err = f.lists.AddMember(f.alice.ID, list.ID, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListRemoveMember(t *testing.T) {
	f := setup(t)
	list, _ := f.newList(t)
	_, err := f.lists.AddMember(f.alice.ID, list.ID, "bob")
	require.NoError(t, err)

	// The owner cannot be removed.
	err = f.lists.RemoveMember(f.alice.ID, list.ID, f.alice.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	require.NoError(t, f.lists.RemoveMember(f.alice.ID, list.ID, f.bob.ID))
	_, err = f.lists.Get(f.bob.ID, list.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Removing someone who is not a member reports not found.
	err = f.lists.RemoveMember(f.alice.ID, list.ID, f.bob.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

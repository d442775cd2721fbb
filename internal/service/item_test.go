package service

import (
	"testing"

	"github.com/ptarling/trolley/internal/apperr"
	"github.com/ptarling/trolley/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCreate(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)

	item, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "gala", true)
	require.NoError(t, err)
	assert.Equal(t, "Apples", item.Name)
	assert.Equal(t, "gala", item.Note)
	assert.True(t, item.PriceMatch)
	assert.False(t, item.IsTicked)
	require.NotNil(t, item.CreatedBy)
	assert.Equal(t, f.alice.ID, *item.CreatedBy)
}

func TestItemCreateDeniedForNonMember(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)

	_, err := f.items.Create(f.bob.ID, cat.ID, "Apples", "", false)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestItemCreateBlankNameRejected(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)

	_, err := f.items.Create(f.alice.ID, cat.ID, "   ", "", false)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestItemUpdateFields(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)
	item, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "", false)
	require.NoError(t, err)

	note := "granny smith"
	ticked := true
	updated, err := f.items.Update(f.alice.ID, item.ID, ItemUpdate{Note: &note, IsTicked: &ticked})
	require.NoError(t, err)
	assert.Equal(t, "granny smith", updated.Note)
	assert.True(t, updated.IsTicked)
	assert.Equal(t, "Apples", updated.Name)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, f.alice.ID, *updated.UpdatedBy)
}

func TestItemUpdateEmptyIsNoOp(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)
	item, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "", false)
	require.NoError(t, err)

	got, err := f.items.Update(f.alice.ID, item.ID, ItemUpdate{})
	require.NoError(t, err)
	assert.Nil(t, got.UpdatedBy)
}

func TestItemMoveWithinList(t *testing.T) {
	f := setup(t)
	list, cat := f.newList(t)
	dairy, err := f.categories.Create(f.alice.ID, list.ID, "Dairy")
	require.NoError(t, err)
	item, err := f.items.Create(f.alice.ID, cat.ID, "Yogurt", "", false)
	require.NoError(t, err)

	moved, err := f.items.Update(f.alice.ID, item.ID, ItemUpdate{CategoryID: &dairy.ID})
	require.NoError(t, err)
	assert.Equal(t, dairy.ID, moved.CategoryID)
}

func TestItemMoveAcrossListsRejected(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)
	other, err := f.lists.Create(f.alice.ID, "Other", model.ListTypePrivate, nil)
	require.NoError(t, err)
	otherCat, err := f.categories.Create(f.alice.ID, other.ID, "Elsewhere")
	require.NoError(t, err)

	item, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "", false)
	require.NoError(t, err)

	_, err = f.items.Update(f.alice.ID, item.ID, ItemUpdate{CategoryID: &otherCat.ID})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestItemMoveToMissingCategory(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)
	item, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "", false)
	require.NoError(t, err)

	missing := int64(9999)
	_, err = f.items.Update(f.alice.ID, item.ID, ItemUpdate{CategoryID: &missing})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestItemSetTicked(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)
	item, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "", false)
	require.NoError(t, err)

	ticked, err := f.items.SetTicked(f.alice.ID, item.ID, true)
	require.NoError(t, err)
	assert.True(t, ticked.IsTicked)

	unticked, err := f.items.SetTicked(f.alice.ID, item.ID, false)
	require.NoError(t, err)
	assert.False(t, unticked.IsTicked)
}

func TestItemSearchInList(t *testing.T) {
	f := setup(t)
	list, cat := f.newList(t)
	_, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "", false)
	require.NoError(t, err)

	matches, err := f.items.SearchInList(f.alice.ID, list.ID, "apples")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Apples", matches[0].Name)

	_, err = f.items.SearchInList(f.bob.ID, list.ID, "apples")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestItemDelete(t *testing.T) {
	f := setup(t)
	_, cat := f.newList(t)
	item, err := f.items.Create(f.alice.ID, cat.ID, "Apples", "", false)
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(f.alice.ID, item.ID))
	_, err = f.items.Get(f.alice.ID, item.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

package service

import (
	"testing"

	"github.com/ptarling/trolley/internal/access"
	"github.com/ptarling/trolley/internal/database"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/store"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users      *store.UserStore
	lists      *ListService
	categories *CategoryService
	items      *ItemService

	alice *model.User
	bob   *model.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userStore := store.NewUserStore(db)
	listStore := store.NewListStore(db)
	categoryStore := store.NewCategoryStore(db)
	itemStore := store.NewItemStore(db)
	checker := access.NewChecker(listStore, categoryStore, itemStore)

	alice, err := userStore.Create("alice", "h")
	require.NoError(t, err)
	bob, err := userStore.Create("bob", "h")
	require.NoError(t, err)

	return &fixture{
		users:      userStore,
		lists:      NewListService(listStore, userStore, checker),
		categories: NewCategoryService(categoryStore, checker),
		items:      NewItemService(itemStore, categoryStore, checker),
		alice:      alice,
		bob:        bob,
	}
}

// newList creates a list owned by alice with one category, for tests that
// need somewhere to put items.
func (f *fixture) newList(t *testing.T) (*model.ShoppingList, *model.Category) {
	t.Helper()
	list, err := f.lists.Create(f.alice.ID, "Groceries", model.ListTypePrivate, nil)
	require.NoError(t, err)
	cat, err := f.categories.Create(f.alice.ID, list.ID, "Produce")
	require.NoError(t, err)
	return list, cat
}

package store

import (
	"testing"

	"github.com/ptarling/trolley/internal/database"
	"github.com/ptarling/trolley/internal/model"
)

type itemFixture struct {
	items   *ItemStore
	cats    *CategoryStore
	list    *model.ShoppingList
	produce *model.Category
	dairy   *model.Category
	user    *model.User
}

func setupItemTestDB(t *testing.T) itemFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := NewUserStore(db)
	ls := NewListStore(db)
	cs := NewCategoryStore(db)
	user, _ := us.Create("alice", "h")
	list, _ := ls.Create("Groceries", model.ListTypePrivate, user.ID)
	produce, _ := cs.Create(list.ID, "Produce", user.ID)
	dairy, _ := cs.Create(list.ID, "Dairy", user.ID)

	return itemFixture{
		items:   NewItemStore(db),
		cats:    cs,
		list:    list,
		produce: produce,
		dairy:   dairy,
		user:    user,
	}
}

func TestItemCreateAndGet(t *testing.T) {
	f := setupItemTestDB(t)

	item, err := f.items.Create(f.produce.ID, "Apples", "gala if possible", true, f.user.ID)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Name != "Apples" {
		t.Errorf("name = %q, want %q", item.Name, "Apples")
	}
	if item.Note != "gala if possible" {
		t.Errorf("note = %q, want %q", item.Note, "gala if possible")
	}
	if !item.PriceMatch {
		t.Error("expected price match set")
	}
	if item.IsTicked {
		t.Error("expected new item unticked")
	}

	got, err := f.items.GetByID(item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got == nil || got.ID != item.ID {
		t.Fatalf("get item = %+v, want id %d", got, item.ID)
	}
}

func TestItemListByList(t *testing.T) {
	f := setupItemTestDB(t)

	f.items.Create(f.produce.ID, "Apples", "", false, f.user.ID)
	f.items.Create(f.dairy.ID, "Milk", "", false, f.user.ID)

	items, err := f.items.ListByList(f.list.ID)
	if err != nil {
		t.Fatalf("list by list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestItemSearchInListCaseInsensitive(t *testing.T) {
	f := setupItemTestDB(t)

	f.items.Create(f.produce.ID, "Apples", "", false, f.user.ID)

	matches, err := f.items.SearchInList(f.list.ID, "apples")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Apples" {
		t.Fatalf("search = %+v, want single Apples match", matches)
	}

	none, err := f.items.SearchInList(f.list.ID, "pears")
	if err != nil {
		t.Fatalf("search miss: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %+v", none)
	}
}

func TestItemSearchReturnsAllMatches(t *testing.T) {
	f := setupItemTestDB(t)

	a, _ := f.items.Create(f.produce.ID, "Apples", "", false, f.user.ID)
	b, _ := f.items.Create(f.dairy.ID, "apples", "", false, f.user.ID)

	matches, err := f.items.SearchInList(f.list.ID, "APPLES")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != a.ID || matches[1].ID != b.ID {
		t.Errorf("expected matches ordered by id, got %+v", matches)
	}
}

func TestItemGetInCategory(t *testing.T) {
	f := setupItemTestDB(t)

	item, _ := f.items.Create(f.produce.ID, "Apples", "", false, f.user.ID)

	got, err := f.items.GetInCategory(f.produce.ID, "apples")
	if err != nil {
		t.Fatalf("get in category: %v", err)
	}
	if got == nil || got.ID != item.ID {
		t.Fatalf("get in category = %+v, want id %d", got, item.ID)
	}

	none, err := f.items.GetInCategory(f.dairy.ID, "Apples")
	if err != nil {
		t.Fatalf("get in category miss: %v", err)
	}
	if none != nil {
		t.Errorf("expected no match in other category, got %+v", none)
	}
}

func TestItemUpdateMovesCategory(t *testing.T) {
	f := setupItemTestDB(t)

	item, _ := f.items.Create(f.produce.ID, "Yogurt", "", false, f.user.ID)
	updated, err := f.items.Update(item.ID, "Yogurt", "greek", true, false, f.dairy.ID, f.user.ID)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.CategoryID != f.dairy.ID {
		t.Errorf("category id = %d, want %d", updated.CategoryID, f.dairy.ID)
	}
	if updated.Note != "greek" {
		t.Errorf("note = %q, want %q", updated.Note, "greek")
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != f.user.ID {
		t.Errorf("updated by = %v, want %d", updated.UpdatedBy, f.user.ID)
	}
}

func TestItemSetTicked(t *testing.T) {
	f := setupItemTestDB(t)

	item, _ := f.items.Create(f.produce.ID, "Apples", "", false, f.user.ID)

	ticked, err := f.items.SetTicked(item.ID, true, f.user.ID)
	if err != nil {
		t.Fatalf("tick item: %v", err)
	}
	if !ticked.IsTicked {
		t.Error("expected item ticked")
	}

	unticked, err := f.items.SetTicked(item.ID, false, f.user.ID)
	if err != nil {
		t.Fatalf("untick item: %v", err)
	}
	if unticked.IsTicked {
		t.Error("expected item unticked")
	}
}

func TestItemDelete(t *testing.T) {
	f := setupItemTestDB(t)

	item, _ := f.items.Create(f.produce.ID, "Apples", "", false, f.user.ID)
	if err := f.items.Delete(item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	got, err := f.items.GetByID(item.ID)
	if err != nil {
		t.Fatalf("get deleted item: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

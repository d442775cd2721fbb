package store

import (
	"testing"

	"github.com/ptarling/trolley/internal/database"
	"github.com/ptarling/trolley/internal/model"
)

func setupListTestDB(t *testing.T) (*ListStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewListStore(db), NewUserStore(db)
}

func TestListCreateAddsOwnerMembership(t *testing.T) {
	ls, us := setupListTestDB(t)
	owner, _ := us.Create("alice", "h")

	list, err := ls.Create("Groceries", model.ListTypePrivate, owner.ID)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if list.Name != "Groceries" {
		t.Errorf("name = %q, want %q", list.Name, "Groceries")
	}
	if list.OwnerID != owner.ID {
		t.Errorf("owner id = %d, want %d", list.OwnerID, owner.ID)
	}

	member, err := ls.GetMember(list.ID, owner.ID)
	if err != nil {
		t.Fatalf("get owner membership: %v", err)
	}
	if member == nil {
		t.Fatal("expected owner to be a member of the new list")
	}
}

func TestListForUser(t *testing.T) {
	ls, us := setupListTestDB(t)
	alice, _ := us.Create("alice", "h")
	bob, _ := us.Create("bob", "h")

	mine, _ := ls.Create("Mine", model.ListTypePrivate, alice.ID)
	shared, _ := ls.Create("Shared", model.ListTypeShared, bob.ID)
	ls.Create("Theirs", model.ListTypePrivate, bob.ID)

	if _, err := ls.AddMember(shared.ID, alice.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	lists, err := ls.ListForUser(alice.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	found := map[int64]bool{}
	for _, l := range lists {
		found[l.ID] = true
	}
	if !found[mine.ID] || !found[shared.ID] {
		t.Errorf("expected lists %d and %d, got %+v", mine.ID, shared.ID, lists)
	}
}

func TestListUpdate(t *testing.T) {
	ls, us := setupListTestDB(t)
	owner, _ := us.Create("alice", "h")
	list, _ := ls.Create("Old", model.ListTypePrivate, owner.ID)

	updated, err := ls.Update(list.ID, "New", model.ListTypeShared)
	if err != nil {
		t.Fatalf("update list: %v", err)
	}
	if updated.Name != "New" {
		t.Errorf("name = %q, want %q", updated.Name, "New")
	}
	if updated.ListType != model.ListTypeShared {
		t.Errorf("list type = %q, want %q", updated.ListType, model.ListTypeShared)
	}
}

func TestListDelete(t *testing.T) {
	ls, us := setupListTestDB(t)
	owner, _ := us.Create("alice", "h")
	list, _ := ls.Create("Doomed", model.ListTypePrivate, owner.ID)

	if err := ls.Delete(list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	got, err := ls.GetByID(list.ID)
	if err != nil {
		t.Fatalf("get deleted list: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}

	member, _ := ls.GetMember(list.ID, owner.ID)
	if member != nil {
		t.Errorf("expected membership removed with list, got %+v", member)
	}
}

func TestListMembers(t *testing.T) {
	ls, us := setupListTestDB(t)
	alice, _ := us.Create("alice", "h")
	bob, _ := us.Create("bob", "h")
	list, _ := ls.Create("Shared", model.ListTypeShared, alice.ID)

	if _, err := ls.AddMember(list.ID, bob.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	members, err := ls.ListMembers(list.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	names := map[string]bool{}
	for _, m := range members {
		names[m.Username] = true
	}
	if !names["alice"] || !names["bob"] {
		t.Errorf("expected alice and bob, got %+v", members)
	}
}

func TestListAddMemberTwice(t *testing.T) {
	ls, us := setupListTestDB(t)
	alice, _ := us.Create("alice", "h")
	bob, _ := us.Create("bob", "h")
	list, _ := ls.Create("Shared", model.ListTypeShared, alice.ID)

	if _, err := ls.AddMember(list.ID, bob.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	_, err := ls.AddMember(list.ID, bob.ID)
	if err == nil {
		t.Fatal("expected error adding member twice")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestListRemoveMember(t *testing.T) {
	ls, us := setupListTestDB(t)
	alice, _ := us.Create("alice", "h")
	bob, _ := us.Create("bob", "h")
	list, _ := ls.Create("Shared", model.ListTypeShared, alice.ID)
	ls.AddMember(list.ID, bob.ID)

	removed, err := ls.RemoveMember(list.ID, bob.ID)
	if err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if !removed {
		t.Error("expected removal to report true")
	}

	removed, err = ls.RemoveMember(list.ID, bob.ID)
	if err != nil {
		t.Fatalf("remove absent member: %v", err)
	}
	if removed {
		t.Error("expected removal of absent member to report false")
	}
}

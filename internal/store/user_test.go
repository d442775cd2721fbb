package store

import (
	"testing"

	"github.com/ptarling/trolley/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.Create("alice", "hash123")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}

	byID, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Username != "alice" {
		t.Fatalf("get by id = %+v, want alice", byID)
	}

	byName, err := us.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName == nil || byName.ID != user.ID {
		t.Fatalf("get by username = %+v, want id %d", byName, user.ID)
	}
	if byName.PasswordHash != "hash123" {
		t.Errorf("password hash = %q, want %q", byName.PasswordHash, "hash123")
	}
}

func TestUserGetMissing(t *testing.T) {
	us := setupUserTestDB(t)

	user, err := us.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("get missing user: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for missing user, got %+v", user)
	}
}

func TestUserDuplicateUsername(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("bob", "h1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := us.Create("bob", "h2")
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestUserGetByUsernames(t *testing.T) {
	us := setupUserTestDB(t)

	alice, _ := us.Create("alice", "h")
	bob, _ := us.Create("bob", "h")
	us.Create("carol", "h")

	users, err := us.GetByUsernames([]string{"alice", "bob", "missing"})
	if err != nil {
		t.Fatalf("get by usernames: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	found := map[int64]bool{}
	for _, u := range users {
		found[u.ID] = true
	}
	if !found[alice.ID] || !found[bob.ID] {
		t.Errorf("expected alice and bob, got %+v", users)
	}

	none, err := us.GetByUsernames(nil)
	if err != nil {
		t.Fatalf("get by empty usernames: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no users for empty input, got %d", len(none))
	}
}

func TestUserSetActive(t *testing.T) {
	us := setupUserTestDB(t)

	user, _ := us.Create("dave", "h")

	if err := us.SetActive(user.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, _ := us.GetByID(user.ID)
	if got.IsActive {
		t.Error("expected user to be inactive")
	}

	if err := us.SetActive(user.ID, true); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	got, _ = us.GetByID(user.ID)
	if !got.IsActive {
		t.Error("expected user to be active again")
	}
}

func TestUserDelete(t *testing.T) {
	us := setupUserTestDB(t)

	user, _ := us.Create("eve", "h")
	if err := us.Delete(user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	got, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get deleted user: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

package store

import (
	"testing"

	"github.com/ptarling/trolley/internal/database"
	"github.com/ptarling/trolley/internal/model"
)

func setupPushTestDB(t *testing.T) (*PushStore, *UserStore, *ListStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPushStore(db), NewUserStore(db), NewListStore(db)
}

func TestPushUpsert(t *testing.T) {
	ps, us, _ := setupPushTestDB(t)
	user, _ := us.Create("alice", "h")

	sub, err := ps.Upsert(user.ID, "https://push.example/ep1", "p256", "auth", "phone")
	if err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}
	if sub.Endpoint != "https://push.example/ep1" {
		t.Errorf("endpoint = %q", sub.Endpoint)
	}

	// Same endpoint updates in place rather than duplicating.
	again, err := ps.Upsert(user.ID, "https://push.example/ep1", "p256-new", "auth-new", "phone")
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if again.P256dhKey != "p256-new" {
		t.Errorf("p256dh = %q, want updated key", again.P256dhKey)
	}

	subs, _ := ps.ListByUser(user.ID)
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}
}

func TestPushListForListMembersExcludesActor(t *testing.T) {
	ps, us, ls := setupPushTestDB(t)
	alice, _ := us.Create("alice", "h")
	bob, _ := us.Create("bob", "h")
	carol, _ := us.Create("carol", "h")

	list, _ := ls.Create("Shared", model.ListTypeShared, alice.ID)
	ls.AddMember(list.ID, bob.ID)

	ps.Upsert(alice.ID, "https://push.example/alice", "p", "a", "")
	ps.Upsert(bob.ID, "https://push.example/bob", "p", "a", "")
	ps.Upsert(carol.ID, "https://push.example/carol", "p", "a", "")

	subs, err := ps.ListForListMembers(list.ID, alice.ID)
	if err != nil {
		t.Fatalf("list for members: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}
	if subs[0].UserID != bob.ID {
		t.Errorf("subscription user = %d, want %d", subs[0].UserID, bob.ID)
	}
}

func TestPushDelete(t *testing.T) {
	ps, us, _ := setupPushTestDB(t)
	user, _ := us.Create("alice", "h")
	sub, _ := ps.Upsert(user.ID, "https://push.example/ep", "p", "a", "")

	if err := ps.Delete(sub.ID); err != nil {
		t.Fatalf("delete subscription: %v", err)
	}
	subs, _ := ps.ListByUser(user.ID)
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions, got %d", len(subs))
	}
}

package store

import (
	"testing"
	"time"

	"github.com/ptarling/trolley/internal/database"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewUserStore(db)
}

func TestSessionCreateAndGet(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	user, _ := us.Create("alice", "h")

	sess, err := ss.Create(user.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if sess.UserID != user.ID {
		t.Errorf("user id = %d, want %d", sess.UserID, user.ID)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Error("expected expiry in the future")
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Fatalf("get by token = %+v, want id %d", got, sess.ID)
	}
}

func TestSessionTokensUnique(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	user, _ := us.Create("alice", "h")

	s1, _ := ss.Create(user.ID)
	s2, _ := ss.Create(user.ID)
	if s1.Token == s2.Token {
		t.Error("expected distinct tokens")
	}
}

func TestSessionDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	user, _ := us.Create("alice", "h")

	sess, _ := ss.Create(user.ID)
	if err := ss.Delete(sess.Token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get deleted session: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestSessionGetUnknownToken(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	got, err := ss.GetByToken("bogus")
	if err != nil {
		t.Fatalf("get unknown token: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown token, got %+v", got)
	}
}

func TestSessionCascadeOnUserDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)
	user, _ := us.Create("alice", "h")
	sess, _ := ss.Create(user.ID)

	if err := us.Delete(user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get session after user delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected session removed with user, got %+v", got)
	}
}

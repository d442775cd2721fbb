package model

import "time"

// List type values. A private list has exactly one member (the owner);
// a shared list may have any number of additional members.
const (
	ListTypePrivate = "private"
	ListTypeShared  = "shared"
)

type ShoppingList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ListType  string    `json:"list_type"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListMember struct {
	ListID  int64     `json:"list_id"`
	UserID  int64     `json:"user_id"`
	AddedAt time.Time `json:"added_at"`
}

// ListMemberInfo is a membership row joined with the member's username,
// as returned to clients.
type ListMemberInfo struct {
	ListID   int64     `json:"list_id"`
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	AddedAt  time.Time `json:"added_at"`
}

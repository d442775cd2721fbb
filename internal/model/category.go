package model

import "time"

// Category names are unique within their list, not globally.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ListID    int64     `json:"list_id"`
	CreatedBy *int64    `json:"created_by"`
	UpdatedBy *int64    `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import "time"

type Item struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Note       string    `json:"note,omitempty"`
	PriceMatch bool      `json:"price_match"`
	IsTicked   bool      `json:"is_ticked"`
	CategoryID int64     `json:"category_id"`
	CreatedBy  *int64    `json:"created_by"`
	UpdatedBy  *int64    `json:"updated_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

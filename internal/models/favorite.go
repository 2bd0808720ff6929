package models

import "time"

// Favorite represents a user's saved product.
// The product is an embedded snapshot, not a reference: later edits to the
// upstream catalog entry do not propagate. Created and deleted on explicit
// user action only, never updated.
type Favorite struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"addedAt"`
}

package model

import "time"

// Bookmark is a saved link owned by exactly one user.
//
// UserID is set once at creation and never changes. Every read or write of
// a bookmark goes through an ownership check against it.
type Bookmark struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID owns the bookmark.
func (b *Bookmark) OwnedBy(userID int64) bool {
	return b.UserID == userID
}

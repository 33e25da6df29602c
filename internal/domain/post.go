package domain

import "time"

// Post is a feed entry. Author fields are a snapshot taken when the post
// was created and are not kept in sync with later profile edits.
type Post struct {
	ID              string
	UserID          string
	FirstName       string
	LastName        string
	Location        string
	UserPicturePath string
	Description     string
	PicturePath     string
	// Likes holds a key only while that user likes the post.
	Likes     map[string]bool
	Comments  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package models

import "time"

// Post is a short text entry owned by a user. AuthorUsername is resolved
// from the users table when listing and is empty otherwise.
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	UserID         string    `json:"userId"`
	AuthorUsername string    `json:"authorUsername,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

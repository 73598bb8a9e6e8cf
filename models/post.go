package models

import "time"

// Post is a forum message. Content is stored already sanitized.
type Post struct {
	Content  string    `json:"content"`
	PostedAt time.Time `json:"time"`
}

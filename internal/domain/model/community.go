package model

import "time"

// CommunityPost's Likes and Comments fields are denormalized caches over the
// post_likes and post_comments tables; the repository keeps them consistent
// with the row counts transactionally.
type CommunityPost struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Content     string    `json:"content"`
	CodeSnippet *string   `json:"codeSnippet,omitempty"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        *Summary  `json:"user,omitempty"`
}

// PostComment is append-only.
type PostComment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	User      *Summary  `json:"user,omitempty"`
}

package models

import "time"

// Repost represents a repost of a post, optionally carrying a short quote.
type Repost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_repost"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_repost"`
	Quote     string    `json:"quote,omitempty" gorm:"size:280"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRepostRequest defines the request body for reposting
type CreateRepostRequest struct {
	Quote string `json:"quote,omitempty" validate:"omitempty,max=280"`
}

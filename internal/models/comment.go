package models

import "gorm.io/gorm"

// Comment represents a comment on a post. Replies reference their parent via
// ParentID; nesting is one level deep, a reply to a reply is stored with the
// reply's ID as parent but rendered flat.
type Comment struct {
	gorm.Model
	PostID   string `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID   uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	ParentID *uint  `json:"parent_id,omitempty" gorm:"index"`
	Content  string `json:"content"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=500"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

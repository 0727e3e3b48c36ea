package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a feed post stored in MongoDB. A post wraps a track or
// video from the music catalog together with a caption.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"` // Numeric ID of the owning user, stored as a string
	VideoID       string             `json:"video_id,omitempty" bson:"video_id,omitempty"`
	TrackID       string             `json:"track_id,omitempty" bson:"track_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Caption       string             `json:"caption" bson:"caption"`
	ImageURLs     []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	IsShort       bool               `json:"is_short" bson:"is_short"` // Shorts render in the vertical video feed
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	RepostsCount  int                `json:"reposts_count" bson:"reposts_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	VideoID   string   `json:"video_id,omitempty" validate:"omitempty,max=64"`
	TrackID   string   `json:"track_id,omitempty" validate:"omitempty,max=64"`
	Title     string   `json:"title" validate:"required,min=1,max=150"`
	Caption   string   `json:"caption,omitempty" validate:"omitempty,max=2200"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	IsShort   bool     `json:"is_short,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title   string `json:"title,omitempty" validate:"omitempty,min=1,max=150"`
	Caption string `json:"caption,omitempty" validate:"omitempty,max=2200"`
}

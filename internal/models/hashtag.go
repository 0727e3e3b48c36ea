package models

import "time"

// Hashtag represents a unique hashtag parsed from post captions
type Hashtag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Tag       string    `json:"tag" gorm:"uniqueIndex;size:100"`
	CreatedAt time.Time `json:"created_at"`
}

// PostHashtag links a post to a hashtag
type PostHashtag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	HashtagID uint      `json:"hashtag_id" gorm:"index;uniqueIndex:idx_hashtag_post"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_hashtag_post"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model     `json:"-"`
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex;size:30"`
	DisplayName    string `json:"display_name"`
	Email          string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Bio            string `json:"bio"`
	AvatarURL      string `json:"avatar_url"`
	Password       string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID    string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	FollowersCount int    `json:"followers_count" gorm:"default:0"`
	FollowingCount int    `json:"following_count" gorm:"default:0"`
	IsArtist       bool   `json:"is_artist" gorm:"default:false"` // Artist profiles carry an AI chat persona
}

// UserCompact is the trimmed-down author representation embedded in feed
// items, stories and notifications.
type UserCompact struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsArtist    bool   `json:"is_artist"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsArtist:    u.IsArtist,
	}
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirebaseUID string `json:"firebase_uid" validate:"required"` // Firebase UID will be provided by the client after Firebase Auth
}

type CreateLocalUserRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Username    string `json:"username,omitempty" validate:"omitempty,min=2,max=30,alphanum"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=50"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=160"`
	AvatarURL   string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

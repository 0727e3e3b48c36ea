package models

import "time"

// Conversation groups direct messages between participants. Conversations
// are created lazily on the first message or share between two users.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationParticipant links a user to a conversation
type ConversationParticipant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;uniqueIndex:idx_conversation_user"`
	UserID         uint      `json:"user_id" gorm:"index;uniqueIndex:idx_conversation_user"`
	CreatedAt      time.Time `json:"created_at"`
}

// Message represents a direct message. Messages are appended, never edited.
// ClientMsgID is the client-generated idempotency key used to reconcile an
// optimistically-rendered pending message with its server-confirmed row.
type Message struct {
	ID             int64     `json:"id" gorm:"primaryKey"` // Snowflake ID
	ConversationID uint      `json:"conversation_id" gorm:"index"`
	SenderID       uint      `json:"sender_id" gorm:"index"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	SharedPostID   string    `json:"shared_post_id,omitempty"` // Set when the message shares a post
	ClientMsgID    string    `json:"client_msg_id" gorm:"uniqueIndex;size:36"`
	IsRead         bool      `json:"is_read" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	RecipientID  uint   `json:"recipient_id" validate:"required"`
	Content      string `json:"content" validate:"required,min=1,max=2000"`
	SharedPostID string `json:"shared_post_id,omitempty"`
	ClientMsgID  string `json:"client_msg_id,omitempty" validate:"omitempty,uuid4"`
}

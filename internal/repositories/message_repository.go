package repositories

import (
	"github.com/sori-music/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message operations. Messages
// are append-only.
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetMessageByClientMsgID(clientMsgID string) (*models.Message, error)
	GetMessagesByConversationID(conversationID uint, limit, offset int) ([]models.Message, error)
	GetLastMessage(conversationID uint) (*models.Message, error)
	MarkConversationRead(conversationID, readerID uint) error
	CountUnread(conversationID, userID uint) (int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage appends a new message
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetMessageByClientMsgID retrieves a message by its client idempotency key
func (r *PostgresMessageRepository) GetMessageByClientMsgID(clientMsgID string) (*models.Message, error) {
	var message models.Message
	if err := r.db.Where("client_msg_id = ?", clientMsgID).First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagesByConversationID retrieves messages for a conversation, oldest
// first so clients can append in arrival order.
func (r *PostgresMessageRepository) GetMessagesByConversationID(conversationID uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

// GetLastMessage retrieves the most recent message in a conversation
func (r *PostgresMessageRepository) GetLastMessage(conversationID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("conversation_id = ?", conversationID).Order("created_at DESC").First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkConversationRead marks all messages from other senders as read
func (r *PostgresMessageRepository) MarkConversationRead(conversationID, readerID uint) error {
	return r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true).Error
}

// CountUnread counts unread messages addressed to a user in a conversation
func (r *PostgresMessageRepository) CountUnread(conversationID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Count(&count).Error
	return count, err
}

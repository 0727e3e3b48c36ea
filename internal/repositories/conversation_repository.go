package repositories

import (
	"time"

	"github.com/sori-music/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for conversation operations
type ConversationRepository interface {
	GetOrCreateDirectConversation(userA, userB uint) (*models.Conversation, bool, error)
	GetConversationByID(id uint) (*models.Conversation, error)
	GetParticipantIDs(conversationID uint) ([]uint, error)
	IsParticipant(conversationID, userID uint) (bool, error)
	GetConversationsForUser(userID uint) ([]models.Conversation, error)
}

// PostgresConversationRepository implements ConversationRepository
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// GetOrCreateDirectConversation finds the direct conversation between two
// users, creating it lazily on the first message or share. The second return
// value reports whether a new conversation was created.
func (r *PostgresConversationRepository) GetOrCreateDirectConversation(userA, userB uint) (*models.Conversation, bool, error) {
	var conversation models.Conversation

	// Find an existing conversation both users participate in
	err := r.db.Where("id IN (?)",
		r.db.Table("conversation_participants").
			Select("conversation_id").
			Where("user_id IN (?)", []uint{userA, userB}).
			Group("conversation_id").
			Having("COUNT(DISTINCT user_id) = 2"),
	).First(&conversation).Error
	if err == nil {
		return &conversation, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	// None exists yet; create conversation + participants in one transaction
	err = r.db.Transaction(func(tx *gorm.DB) error {
		conversation = models.Conversation{CreatedAt: time.Now()}
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		participants := []models.ConversationParticipant{
			{ConversationID: conversation.ID, UserID: userA, CreatedAt: time.Now()},
			{ConversationID: conversation.ID, UserID: userB, CreatedAt: time.Now()},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &conversation, true, nil
}

// GetConversationByID retrieves a conversation by ID
func (r *PostgresConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetParticipantIDs returns the user IDs participating in a conversation
func (r *PostgresConversationRepository) GetParticipantIDs(conversationID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ConversationParticipant{}).Where("conversation_id = ?", conversationID).Pluck("user_id", &ids).Error
	return ids, err
}

// IsParticipant checks whether a user belongs to a conversation
func (r *PostgresConversationRepository) IsParticipant(conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ConversationParticipant{}).Where("conversation_id = ? AND user_id = ?", conversationID, userID).Count(&count).Error
	return count > 0, err
}

// GetConversationsForUser retrieves all conversations a user participates in
func (r *PostgresConversationRepository) GetConversationsForUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("id IN (?)",
		r.db.Table("conversation_participants").Select("conversation_id").Where("user_id = ?", userID),
	).Order("created_at DESC").Find(&conversations).Error
	return conversations, err
}

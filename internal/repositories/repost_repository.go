package repositories

import (
	"fmt"

	"github.com/sori-music/backend/internal/models"
	"gorm.io/gorm"
)

// RepostRepository defines the interface for repost data operations
type RepostRepository interface {
	CreateRepost(repost *models.Repost) error
	DeleteRepost(postID string, userID uint) error
	HasUserReposted(postID string, userID uint) (bool, error)
	GetRepostsCountByPostID(postID string) (int64, error)
	GetRepostsByUser(userID uint) ([]models.Repost, error)
	GetRepostedPostIDs(userID uint, postIDs []string) (map[string]bool, error)
}

// PostgresRepostRepository implements RepostRepository for PostgreSQL
type PostgresRepostRepository struct {
	db *gorm.DB
}

// NewPostgresRepostRepository creates a new PostgresRepostRepository
func NewPostgresRepostRepository(db *gorm.DB) *PostgresRepostRepository {
	return &PostgresRepostRepository{db: db}
}

// CreateRepost creates a new repost in PostgreSQL
func (r *PostgresRepostRepository) CreateRepost(repost *models.Repost) error {
	return r.db.Create(repost).Error
}

// DeleteRepost deletes a repost from PostgreSQL
func (r *PostgresRepostRepository) DeleteRepost(postID string, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Repost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repost not found")
	}
	return nil
}

// HasUserReposted checks if a user has reposted a specific post
func (r *PostgresRepostRepository) HasUserReposted(postID string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Repost{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	return count > 0, err
}

// GetRepostsCountByPostID retrieves the count of reposts for a specific post
func (r *PostgresRepostRepository) GetRepostsCountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Repost{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// GetRepostsByUser retrieves a user's reposts, newest first
func (r *PostgresRepostRepository) GetRepostsByUser(userID uint) ([]models.Repost, error) {
	var reposts []models.Repost
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reposts).Error
	return reposts, err
}

// GetRepostedPostIDs returns which of the given posts the user has reposted
func (r *PostgresRepostRepository) GetRepostedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var reposts []models.Repost
	err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&reposts).Error
	if err != nil {
		return nil, err
	}
	for _, rp := range reposts {
		result[rp.PostID] = true
	}
	return result, nil
}

package repositories

import (
	"time"

	"github.com/sori-music/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagRepository defines the interface for hashtag operations
type HashtagRepository interface {
	TagPost(postID string, tags []string) error
	GetPostIDsByTag(tag string) ([]string, error)
	GetTagsForPost(postID string) ([]string, error)
}

// PostgresHashtagRepository implements HashtagRepository
type PostgresHashtagRepository struct {
	db *gorm.DB
}

// NewPostgresHashtagRepository creates a new PostgresHashtagRepository
func NewPostgresHashtagRepository(db *gorm.DB) *PostgresHashtagRepository {
	return &PostgresHashtagRepository{db: db}
}

// TagPost upserts the hashtags and links them to the post
func (r *PostgresHashtagRepository) TagPost(postID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, tag := range tags {
			hashtag := models.Hashtag{Tag: tag, CreatedAt: time.Now()}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tag"}},
				DoNothing: true,
			}).Create(&hashtag).Error; err != nil {
				return err
			}
			if hashtag.ID == 0 { // conflict path, fetch the existing row
				if err := tx.Where("tag = ?", tag).First(&hashtag).Error; err != nil {
					return err
				}
			}
			link := models.PostHashtag{HashtagID: hashtag.ID, PostID: postID, CreatedAt: time.Now()}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPostIDsByTag returns post IDs carrying a hashtag, newest link first
func (r *PostgresHashtagRepository) GetPostIDsByTag(tag string) ([]string, error) {
	var ids []string
	err := r.db.Table("post_hashtags").
		Select("post_hashtags.post_id").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("hashtags.tag = ?", tag).
		Order("post_hashtags.created_at DESC").
		Pluck("post_hashtags.post_id", &ids).Error
	return ids, err
}

// GetTagsForPost returns the hashtags attached to a post
func (r *PostgresHashtagRepository) GetTagsForPost(postID string) ([]string, error) {
	var tags []string
	err := r.db.Table("hashtags").
		Select("hashtags.tag").
		Joins("JOIN post_hashtags ON post_hashtags.hashtag_id = hashtags.id").
		Where("post_hashtags.post_id = ?", postID).
		Pluck("hashtags.tag", &tags).Error
	return tags, err
}

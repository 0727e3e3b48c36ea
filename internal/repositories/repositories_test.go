package repositories

import (
	"testing"

	"github.com/sori-music/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the relational schema
// migrated. Mongo-backed repositories are exercised against a live server
// only; everything relational runs here.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.Follow{},
		&models.SavedPost{},
		&models.Repost{},
		&models.Notification{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.Hashtag{},
		&models.PostHashtag{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
		FirebaseUID: "fb-" + username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

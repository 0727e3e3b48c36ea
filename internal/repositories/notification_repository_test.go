package repositories

import (
	"testing"
	"time"

	"github.com/sori-music/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNotification(t *testing.T, db *gorm.DB, recipientID uint, notificationType string, at time.Time) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		Type:        notificationType,
		ActorID:     99,
		RecipientID: recipientID,
		TargetType:  "post",
		CreatedAt:   at,
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestCreateNotificationStampsTime(t *testing.T) {
	repo := NewPostgresNotificationRepository(newTestDB(t))

	notification := &models.Notification{Type: "like", ActorID: 1, RecipientID: 2}
	require.NoError(t, repo.CreateNotification(notification))
	assert.False(t, notification.CreatedAt.IsZero())
}

func TestNotificationsPaginatedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	now := time.Now()
	for i := 0; i < 5; i++ {
		seedNotification(t, db, 2, "like", now.Add(time.Duration(i)*time.Second))
	}
	seedNotification(t, db, 3, "follow", now)

	notifications, total, err := repo.GetByRecipientID(2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, notifications, 3)
	assert.True(t, notifications[0].CreatedAt.After(notifications[2].CreatedAt))

	notifications, _, err = repo.GetByRecipientID(2, 2, 3)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

func TestNotificationsGroupedByAge(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	seedNotification(t, db, 2, "like", startOfToday.Add(time.Hour))
	seedNotification(t, db, 2, "comment", startOfToday.Add(-2*time.Hour))
	seedNotification(t, db, 2, "follow", startOfToday.AddDate(0, 0, -3))
	seedNotification(t, db, 2, "repost", startOfToday.AddDate(0, 0, -30))

	today, yesterday, thisWeek, older, err := repo.GetGrouped(2)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "like", today[0].Type)
	require.Len(t, yesterday, 1)
	assert.Equal(t, "comment", yesterday[0].Type)
	require.Len(t, thisWeek, 1)
	assert.Equal(t, "follow", thisWeek[0].Type)
	require.Len(t, older, 1)
	assert.Equal(t, "repost", older[0].Type)
}

func TestNotificationReadTracking(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	first := seedNotification(t, db, 2, "like", time.Now())
	seedNotification(t, db, 2, "comment", time.Now())

	count, err := repo.GetUnreadCount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkAsRead(first.ID))
	count, err = repo.GetUnreadCount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.MarkAllAsRead(2))
	count, err = repo.GetUnreadCount(2)
	require.NoError(t, err)
	assert.Zero(t, count)
}

package repositories

import (
	"time"

	"github.com/sori-music/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetGrouped(recipientID uint) (today, yesterday, thisWeek, older []models.Notification, err error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead(recipientID uint) error
}

// PostgresNotificationRepository implements NotificationRepository
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateNotification creates a new notification
func (r *PostgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	notification.CreatedAt = time.Now()
	return r.db.Create(notification).Error
}

// GetByRecipientID returns paginated notifications for a recipient, newest first
func (r *PostgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&notifications).Error
	return notifications, total, err
}

// GetGrouped returns notifications bucketed by age
func (r *PostgresNotificationRepository) GetGrouped(recipientID uint) (today, yesterday, thisWeek, older []models.Notification, err error) {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	startOfWeek := startOfToday.AddDate(0, 0, -7)

	base := func() *gorm.DB {
		return r.db.Where("recipient_id = ?", recipientID).Order("created_at DESC")
	}

	if err = base().Where("created_at >= ?", startOfToday).Find(&today).Error; err != nil {
		return
	}
	if err = base().Where("created_at >= ? AND created_at < ?", startOfYesterday, startOfToday).Find(&yesterday).Error; err != nil {
		return
	}
	if err = base().Where("created_at >= ? AND created_at < ?", startOfWeek, startOfYesterday).Find(&thisWeek).Error; err != nil {
		return
	}
	err = base().Where("created_at < ?", startOfWeek).Find(&older).Error
	return
}

// GetUnreadCount returns the unread notification count for a recipient
func (r *PostgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

// MarkAsRead marks a single notification as read
func (r *PostgresNotificationRepository) MarkAsRead(id uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

// MarkAllAsRead marks all of a recipient's notifications as read
func (r *PostgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Update("is_read", true).Error
}

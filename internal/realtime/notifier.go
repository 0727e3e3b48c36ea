package realtime

import (
	"time"

	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/repositories"
	"github.com/sori-music/backend/pkg/logger"
	"go.uber.org/zap"
)

// Notifier persists a notification and pushes it to the recipient's open
// connections. Notification delivery is best-effort; failures are logged and
// never bubble into the interaction that triggered them.
type Notifier struct {
	repo repositories.NotificationRepository
	hub  *Hub
}

// NewNotifier creates a Notifier.
func NewNotifier(repo repositories.NotificationRepository, hub *Hub) *Notifier {
	return &Notifier{repo: repo, hub: hub}
}

// Notify stores the notification and pushes it over the hub.
func (n *Notifier) Notify(notification *models.Notification) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	if err := n.repo.CreateNotification(notification); err != nil {
		logger.L.Warn("notification create failed",
			zap.String("type", notification.Type),
			zap.Uint("recipient_id", notification.RecipientID),
			zap.Error(err))
		return
	}
	n.hub.SendToUser(notification.RecipientID, Event{Type: EventNewNotification, Payload: notification})
}

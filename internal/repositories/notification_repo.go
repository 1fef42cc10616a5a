package repositories

import "permata/internal/models"

// NotificationRepository defines the interface for notification data access.
// Notifications are append-only from the client's perspective; the only
// mutation is marking them read.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByUser(userID string) ([]models.Notification, error)
	CountUnread(userID string) (int64, error)
	MarkRead(id string, userID string) error
	MarkAllRead(userID string) error
}

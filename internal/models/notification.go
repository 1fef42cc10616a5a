package models

import "time"

// Notification types.
const (
	NotificationTypeOrder  = "order"
	NotificationTypePromo  = "promo"
	NotificationTypeSystem = "system"
)

// Notification is a message shown to a user. Notifications are created once
// and only ever mutated by marking them read; clients never delete them.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type" gorm:"type:varchar(20)"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

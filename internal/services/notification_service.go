package services

import (
	"fmt"

	"permata/internal/models"
	"permata/internal/repositories"
	"permata/pkg/rabbitmq"
)

// NotificationService handles business logic related to user notifications.
type NotificationService struct {
	repo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

// GetNotifications returns all notifications of a user, newest first.
func (s *NotificationService) GetNotifications(userID string) ([]models.Notification, error) {
	return s.repo.GetByUser(userID)
}

// CountUnread returns the number of unread notifications of a user.
func (s *NotificationService) CountUnread(userID string) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(id, userID string) error {
	return s.repo.MarkRead(id, userID)
}

// MarkAllRead marks every notification of a user as read.
func (s *NotificationService) MarkAllRead(userID string) error {
	return s.repo.MarkAllRead(userID)
}

// Create records a new notification.
func (s *NotificationService) Create(notification *models.Notification) error {
	return s.repo.Create(notification)
}

// HandleOrderEvent turns an order event from the queue into a notification.
// Used as the consumer handler for status-change fan-out; order-created
// notifications are written directly by checkout, so they are skipped here.
func (s *NotificationService) HandleOrderEvent(event rabbitmq.OrderEvent) error {
	if event.Type != rabbitmq.EventOrderStatusChanged {
		return nil
	}

	var message string
	switch event.Status {
	case models.OrderStatusShipping:
		message = fmt.Sprintf("Your order %s is on its way.", event.OrderNumber)
	case models.OrderStatusCompleted:
		message = fmt.Sprintf("Your order %s has been delivered. Enjoy!", event.OrderNumber)
	case models.OrderStatusCancelled:
		message = fmt.Sprintf("Your order %s has been cancelled.", event.OrderNumber)
	default:
		message = fmt.Sprintf("Your order %s is now %s.", event.OrderNumber, event.Status)
	}

	return s.repo.Create(&models.Notification{
		UserID:  event.UserID,
		Title:   "Order update",
		Message: message,
		Type:    models.NotificationTypeOrder,
	})
}

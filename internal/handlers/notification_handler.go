package handlers

import (
	"fmt"
	"log"
	"strings"

	"permata/internal/middleware"
	"permata/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for user notifications.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", h.HandleGetNotifications)
	notificationRoutes.Get("/unread-count", h.HandleUnreadCount)
	notificationRoutes.Patch("/read-all", h.HandleMarkAllRead)
	notificationRoutes.Patch("/:id/read", h.HandleMarkRead)
}

// HandleGetNotifications retrieves the user's notifications, newest first.
func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	notifications, err := h.service.GetNotifications(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(notifications)
}

// HandleUnreadCount returns the number of unread notifications.
func (h *NotificationHandler) HandleUnreadCount(c *fiber.Ctx) error {
	count, err := h.service.CountUnread(middleware.UserID(c))
	if err != nil {
		log.Printf("Error counting unread notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not count notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"unread": count,
	})
}

// HandleMarkRead marks a single notification as read.
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	notificationID := c.Params("id")
	if err := h.service.MarkRead(notificationID, middleware.UserID(c)); err != nil {
		log.Printf("Error marking notification %s read: %v", notificationID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Notification with ID %s not found", notificationID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update notification",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

// HandleMarkAllRead marks every notification of the user as read.
func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	if err := h.service.MarkAllRead(middleware.UserID(c)); err != nil {
		log.Printf("Error marking all notifications read: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
	})
}

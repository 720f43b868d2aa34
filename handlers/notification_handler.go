package handlers

import (
	"github.com/mitulaghara/villageconnect/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// notificationFetchLimit caps how many notifications a single fetch returns.
const notificationFetchLimit = 50

type NotificationHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewNotificationHandler(db *gorm.DB, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{DB: db, Log: log}
}

// GetNotifications - GET /api/notifications
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	notifications := []models.Notification{}
	if err := h.DB.Order("created_at DESC, id DESC").
		Limit(notificationFetchLimit).
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(notifications)
}

// ClearNotifications - DELETE /api/notifications
//
// Notifications are global, so clearing wipes every user's history, not just
// the caller's. That destructive scope is intentional and preserved.
func (h *NotificationHandler) ClearNotifications(c *fiber.Ctx) error {
	if err := h.DB.Where("1 = 1").Delete(&models.Notification{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear notifications"})
	}

	h.Log.Info("notifications cleared globally")

	return c.JSON(fiber.Map{"message": "Notifications cleared"})
}

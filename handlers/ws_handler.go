package handlers

import (
	"github.com/mitulaghara/villageconnect/internal/ws"
	"github.com/mitulaghara/villageconnect/models"
	"github.com/mitulaghara/villageconnect/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WSHandler struct {
	DB          *gorm.DB
	Hub         *ws.Hub
	TokenSecret string
	Log         *zap.Logger
}

func NewWSHandler(db *gorm.DB, hub *ws.Hub, tokenSecret string, log *zap.Logger) *WSHandler {
	return &WSHandler{DB: db, Hub: hub, TokenSecret: tokenSecret, Log: log}
}

// Upgrade gates the websocket route: the connection must be an upgrade
// request carrying a valid bearer token in the query string.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}
	if err := utils.VerifyToken(token, h.TokenSecret); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var user models.User
	if err := h.DB.Where("token = ?", token).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	c.Locals("user_id", user.ID)
	return c.Next()
}

// Handle - GET /ws (after upgrade)
func (h *WSHandler) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(uint)

		client := ws.NewClient(uuid.NewString(), h.Hub, conn, userID, h.Log)
		h.Hub.Register <- client

		// WritePump runs in its own goroutine; ReadPump blocks until the
		// connection drops, which keeps the fiber handler alive.
		go client.WritePump()
		client.ReadPump()
	})
}

package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/mitulaghara/villageconnect/models"
	"github.com/mitulaghara/villageconnect/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB          *gorm.DB
	TokenSecret string
	Log         *zap.Logger
}

func NewAuthHandler(db *gorm.DB, tokenSecret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{DB: db, TokenSecret: tokenSecret, Log: log}
}

// RegisterRequest defines the payload for registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Village  string `json:"village"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register - POST /api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.Village == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Registration failed"})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Registration failed"})
	}

	// Re-registering is the only way to obtain a fresh token.
	token, err := utils.GenerateToken(h.TokenSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Registration failed"})
	}

	user := models.User{
		Name:     req.Name,
		Email:    email,
		Password: hashedPassword,
		Phone:    req.Phone,
		Village:  req.Village,
		Role:     models.RoleMember,
		Token:    token,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
	}

	h.Log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("village", user.Village))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
			"token": user.Token,
		},
	})
}

// Login - POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	now := time.Now()
	if err := h.DB.Model(&user).Update("last_login", now).Error; err != nil {
		h.Log.Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user": fiber.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
			"village": user.Village,
			"token":   user.Token,
		},
	})
}

package handlers

import (
	"github.com/mitulaghara/villageconnect/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsHandler struct {
	DB *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

// GetVillages - GET /api/villages
func (h *StatsHandler) GetVillages(c *fiber.Ctx) error {
	villages, err := models.DistinctVillages(h.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch villages"})
	}
	return c.JSON(villages)
}

// GetStats - GET /api/stats
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	var totalUsers, totalProducts int64
	if err := h.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	if err := h.DB.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	villages, err := models.DistinctVillages(h.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	return c.JSON(fiber.Map{
		"total_users":    totalUsers,
		"total_products": totalProducts,
		"total_villages": len(villages),
	})
}

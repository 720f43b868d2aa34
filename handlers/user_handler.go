package handlers

import (
	"github.com/mitulaghara/villageconnect/middleware"
	"github.com/mitulaghara/villageconnect/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewUserHandler(db *gorm.DB, log *zap.Logger) *UserHandler {
	return &UserHandler{DB: db, Log: log}
}

// GetProfile - GET /api/user/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{"user": user.Public()})
}

// UpdateProfileRequest carries the mutable profile fields. Empty fields are
// left unchanged. Email and role are not editable here.
type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Village string `json:"village"`
}

// UpdateProfile - PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Village != "" {
		user.Village = req.Village
	}

	// Existing products keep their owner snapshot; only future listings pick
	// up the new name and village.
	if err := h.DB.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user.Public(),
	})
}

// DeleteProfile - DELETE /api/user/profile
func (h *UserHandler) DeleteProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	// Cascade is explicit: the user's listings go first, then the account.
	if err := h.DB.Where("owner_id = ?", user.ID).Delete(&models.Product{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete account"})
	}

	if err := h.DB.Delete(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete account"})
	}

	h.Log.Info("account deleted", zap.Uint("user_id", user.ID))

	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

// SaveProduct - POST /api/products/:id/save
func (h *UserHandler) SaveProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	// Read-modify-write on the whole saved list; concurrent saves on the same
	// user can lose an update (last write wins).
	if user.SaveProduct(product.ID) {
		if err := h.DB.Model(user).Update("saved_products", user.SavedProducts).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save product"})
		}
	}

	return c.JSON(fiber.Map{
		"message":        "Product saved",
		"saved_products": user.SavedProducts,
	})
}

// UnsaveProduct - DELETE /api/products/:id/save
func (h *UserHandler) UnsaveProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	// Unsaving an id that was never saved is a no-op, not an error; the
	// target product may already be gone.
	if user.UnsaveProduct(uint(id)) {
		if err := h.DB.Model(user).Update("saved_products", user.SavedProducts).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to unsave product"})
		}
	}

	return c.JSON(fiber.Map{
		"message":        "Product removed from saved",
		"saved_products": user.SavedProducts,
	})
}

// GetSavedProducts - GET /api/user/saved-products
func (h *UserHandler) GetSavedProducts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if len(user.SavedProducts) == 0 {
		return c.JSON([]models.Product{})
	}

	var found []models.Product
	if err := h.DB.Where("id IN ?", user.SavedProducts).Find(&found).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch saved products"})
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	// Preserve addition order; dangling ids are silently skipped.
	products := make([]models.Product, 0, len(found))
	for _, id := range user.SavedProducts {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}

	return c.JSON(products)
}

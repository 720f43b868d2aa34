package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitulaghara/villageconnect/internal/ws"
	"github.com/mitulaghara/villageconnect/middleware"
	"github.com/mitulaghara/villageconnect/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxImageSize caps each uploaded product image at 5MB.
const maxImageSize = 5 * 1024 * 1024

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type ProductHandler struct {
	DB        *gorm.DB
	Hub       *ws.Hub
	UploadDir string
	Log       *zap.Logger
}

func NewProductHandler(db *gorm.DB, hub *ws.Hub, uploadDir string, log *zap.Logger) *ProductHandler {
	return &ProductHandler{DB: db, Hub: hub, UploadDir: uploadDir, Log: log}
}

// CreateProduct - POST /api/products (multipart)
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	title := strings.TrimSpace(c.FormValue("title"))
	description := c.FormValue("description")
	category := c.FormValue("category")
	contact := c.FormValue("contact")

	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}
	if !models.ValidCategory(category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category"})
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be a non-negative number"})
	}

	images, err := h.storeImages(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product := models.Product{
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		Contact:     contact,
		Images:      images,
		// Owner name and village are snapshotted here; later profile edits do
		// not rename existing listings.
		OwnerID:      user.ID,
		OwnerName:    user.Name,
		OwnerVillage: user.Village,
		Status:       models.StatusActive,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to post product"})
	}

	h.notifyNewProduct(&product)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product posted successfully",
		"product": product,
	})
}

// notifyNewProduct persists a global notification for the new listing and
// fans it out to every connected client. Best effort: neither a persistence
// nor a broadcast failure may affect the product creation that triggered it.
func (h *ProductHandler) notifyNewProduct(product *models.Product) {
	notification := models.Notification{
		Message:   fmt.Sprintf("%s posted a new product: %s", product.OwnerName, product.Title),
		Kind:      models.KindNewProduct,
		ProductID: &product.ID,
	}
	if err := h.DB.Create(&notification).Error; err != nil {
		h.Log.Error("failed to persist notification", zap.Uint("product_id", product.ID), zap.Error(err))
	}

	h.Hub.BroadcastEvent(ws.Event{
		Type:      "new_product",
		Message:   notification.Message,
		ProductID: product.ID,
		OwnerName: product.OwnerName,
		Timestamp: time.Now(),
	})
}

// storeImages saves up to MaxProductImages multipart files and returns their
// public references in upload order. A request with no images is valid.
func (h *ProductHandler) storeImages(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return []string{}, nil
	}

	files := form.File["images"]
	if len(files) > models.MaxProductImages {
		return nil, fmt.Errorf("at most %d images are allowed", models.MaxProductImages)
	}

	refs := make([]string, 0, len(files))
	for _, file := range files {
		ref, err := h.storeImage(c, file)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (h *ProductHandler) storeImage(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image %s exceeds the 5MB limit", file.Filename)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("only jpg, jpeg, png, webp and gif images are allowed")
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	destination := filepath.Join(h.UploadDir, "products", filename)

	if err := c.SaveFile(file, destination); err != nil {
		return "", fmt.Errorf("could not save image %s", file.Filename)
	}

	return "/uploads/products/" + filename, nil
}

// GetProducts - GET /api/products?category&village&search&page&limit
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := models.ProductFilter{
		Category: c.Query("category"),
		Village:  c.Query("village"),
		Search:   c.Query("search"),
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", models.DefaultPageLimit)

	products, meta, err := models.QueryProducts(h.DB, filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
	}

	return c.JSON(fiber.Map{
		"products": products,
		"total":    meta.Total,
		"page":     meta.Page,
		"pages":    meta.Pages,
	})
}

// GetProduct - GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	return c.JSON(product)
}

// GetUserProducts - GET /api/products/user/:userId
func (h *ProductHandler) GetUserProducts(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	products := []models.Product{}
	if err := h.DB.Where("owner_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user products"})
	}

	return c.JSON(products)
}

// UpdateProductRequest carries the mutable product fields. Empty fields leave
// the stored value unchanged.
type UpdateProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Contact     string   `json:"contact"`
	Status      string   `json:"status"`
}

// UpdateProduct - PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	if product.OwnerID != user.ID && !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to update this product"})
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if req.Title != "" {
		product.Title = req.Title
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be a non-negative number"})
		}
		product.Price = *req.Price
	}
	if req.Category != "" {
		if !models.ValidCategory(req.Category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category"})
		}
		product.Category = req.Category
	}
	if req.Contact != "" {
		product.Contact = req.Contact
	}
	if req.Status != "" {
		if !models.ValidStatus(req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
		}
		product.Status = req.Status
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct - DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	if product.OwnerID != user.ID && !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to delete this product"})
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

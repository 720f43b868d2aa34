package config

import (
	"errors"

	"github.com/mitulaghara/villageconnect/models"
	"github.com/mitulaghara/villageconnect/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedUsers creates a demo admin and a couple of member accounts if they do
// not exist yet. Safe to call on every boot.
func SeedUsers(db *gorm.DB, tokenSecret string, log *zap.Logger) {
	password, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Name:     "Admin",
			Email:    "admin@villageconnect.local",
			Password: password,
			Phone:    "9999900000",
			Village:  "Rampur",
			Role:     models.RoleAdmin,
		},
		{
			Name:     "Ramesh Kumar",
			Email:    "ramesh@example.com",
			Password: password,
			Phone:    "9876543210",
			Village:  "Rampur",
			Role:     models.RoleMember,
		},
		{
			Name:     "Sita Devi",
			Email:    "sita@example.com",
			Password: password,
			Phone:    "9123456780",
			Village:  "Lakshmipur",
			Role:     models.RoleMember,
		},
	}

	for _, user := range users {
		var existing models.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to check seed user", zap.String("email", user.Email), zap.Error(err))
			continue
		}

		token, err := utils.GenerateToken(tokenSecret)
		if err != nil {
			log.Error("failed to issue seed token", zap.Error(err))
			continue
		}
		user.Token = token

		if err := db.Create(&user).Error; err != nil {
			log.Error("failed to seed user", zap.String("email", user.Email), zap.Error(err))
		} else {
			log.Info("seeded user", zap.String("email", user.Email), zap.Uint("id", user.ID))
		}
	}
}

// SeedProducts creates a handful of demo listings owned by the seeded members.
func SeedProducts(db *gorm.DB, log *zap.Logger) {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	var ramesh, sita models.User
	if err := db.Where("email = ?", "ramesh@example.com").First(&ramesh).Error; err != nil {
		return
	}
	if err := db.Where("email = ?", "sita@example.com").First(&sita).Error; err != nil {
		return
	}

	products := []models.Product{
		{
			Title:        "Fresh Tomatoes",
			Description:  "Organically grown tomatoes, picked this morning.",
			Price:        40,
			Category:     models.CategoryFreshProduce,
			Contact:      ramesh.Phone,
			OwnerID:      ramesh.ID,
			OwnerName:    ramesh.Name,
			OwnerVillage: ramesh.Village,
			Status:       models.StatusActive,
		},
		{
			Title:        "Handwoven Basket",
			Description:  "Bamboo basket, sturdy weave, good for market runs.",
			Price:        150,
			Category:     models.CategoryHandicrafts,
			Contact:      sita.Phone,
			OwnerID:      sita.ID,
			OwnerName:    sita.Name,
			OwnerVillage: sita.Village,
			Status:       models.StatusActive,
		},
		{
			Title:        "Used Hand Tiller",
			Description:  "Two seasons old, recently serviced.",
			Price:        5500,
			Category:     models.CategoryEquipment,
			Contact:      ramesh.Phone,
			OwnerID:      ramesh.ID,
			OwnerName:    ramesh.Name,
			OwnerVillage: ramesh.Village,
			Status:       models.StatusActive,
		},
	}

	for _, product := range products {
		if err := db.Create(&product).Error; err != nil {
			log.Error("failed to seed product", zap.String("title", product.Title), zap.Error(err))
		}
	}
	log.Info("seeded demo products", zap.Int("count", len(products)))
}

package models

import (
	"time"
)

// Product categories
const (
	CategoryAgriculture  = "agriculture"
	CategoryHandicrafts  = "handicrafts"
	CategoryLivestock    = "livestock"
	CategoryFreshProduce = "fresh_produce"
	CategoryEquipment    = "equipment"
	CategoryOther        = "other"
)

// Product statuses
const (
	StatusActive  = "active"
	StatusSold    = "sold"
	StatusExpired = "expired"
)

// MaxProductImages bounds the images attached to one product.
const MaxProductImages = 5

var validCategories = map[string]bool{
	CategoryAgriculture:  true,
	CategoryHandicrafts:  true,
	CategoryLivestock:    true,
	CategoryFreshProduce: true,
	CategoryEquipment:    true,
	CategoryOther:        true,
}

var validStatuses = map[string]bool{
	StatusActive:  true,
	StatusSold:    true,
	StatusExpired: true,
}

// ValidCategory reports whether c is a known product category.
func ValidCategory(c string) bool {
	return validCategories[c]
}

// ValidStatus reports whether s is a known product status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `gorm:"size:50;index" json:"category"`
	Contact     string  `gorm:"size:100" json:"contact"`

	// Stable references returned by image storage, in upload order. At most
	// MaxProductImages entries.
	Images []string `gorm:"serializer:json" json:"images"`

	// OwnerID is immutable after creation. OwnerName and OwnerVillage are a
	// snapshot of the owner at creation time and are never resynced with later
	// profile edits.
	OwnerID      uint   `gorm:"index;not null" json:"owner_id"`
	OwnerName    string `gorm:"size:100" json:"owner_name"`
	OwnerVillage string `gorm:"size:100;index" json:"owner_village"`

	Status string `gorm:"default:'active';size:20" json:"status"` // active, sold, expired

	CreatedAt time.Time `json:"created_at"`
}

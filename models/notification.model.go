package models

import (
	"time"
)

// Notification kinds
const (
	KindNewProduct = "new_product"
	KindSystem     = "system"
	KindAlert      = "alert"
	KindMessage    = "message"
)

// Notifications are global: UserID exists in the schema but no code path
// populates or filters on it, so every notification is visible to every user
// and the clear operation wipes the whole collection.
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Message string `gorm:"type:text;not null" json:"message"`
	Kind    string `gorm:"default:'new_product';size:20" json:"kind"`

	ProductID *uint `gorm:"index" json:"product_id,omitempty"`
	UserID    *uint `json:"user_id,omitempty"`

	// Never flipped to true by any server operation.
	IsRead bool `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}

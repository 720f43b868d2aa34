package models

import (
	"time"
)

// User roles
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null;size:100" json:"email"` // stored lowercased
	// Bcrypt hash, never serialized
	Password string `gorm:"not null" json:"-"`

	Phone   string `gorm:"size:20" json:"phone"`
	Village string `gorm:"size:100;index" json:"village"`

	Role string `gorm:"default:'member';size:20" json:"role"` // member, admin

	// Opaque bearer credential issued at registration. Unique; the row lookup
	// on this column is the sole credential check on authenticated requests.
	Token string `gorm:"uniqueIndex;size:512" json:"-"`

	// Saved product ids in order of addition, no duplicates. Ids may dangle
	// after a product is deleted; readers skip ids that no longer resolve.
	SavedProducts []uint `gorm:"serializer:json" json:"saved_products"`

	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// IsAdmin reports whether the user may perform admin-gated operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasSaved reports whether productID is in the user's saved list.
func (u *User) HasSaved(productID uint) bool {
	for _, id := range u.SavedProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// SaveProduct appends productID to the saved list if not already present.
// Returns true if the list changed.
func (u *User) SaveProduct(productID uint) bool {
	if u.HasSaved(productID) {
		return false
	}
	u.SavedProducts = append(u.SavedProducts, productID)
	return true
}

// UnsaveProduct removes productID from the saved list, preserving order.
// Removing an id that is not present is a no-op.
func (u *User) UnsaveProduct(productID uint) bool {
	for i, id := range u.SavedProducts {
		if id == productID {
			u.SavedProducts = append(u.SavedProducts[:i], u.SavedProducts[i+1:]...)
			return true
		}
	}
	return false
}

// PublicUser is the user shape returned by profile and admin listings.
type PublicUser struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Village   string     `json:"village"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Public strips credential fields for API responses.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Village:   u.Village,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartItem struct {
	ID           string   `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID       string   `gorm:"size:36;index;not null" json:"user_id"`
	User         *User    `gorm:"foreignKey:UserID" json:"-"`
	ProductID    string   `gorm:"size:36;index;not null" json:"product_id"`
	Product      *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductCount int      `gorm:"not null" json:"product_count"`
	Active       bool     `gorm:"not null;default:true;index" json:"active"`
	OrderID      *string  `gorm:"size:36;index" json:"order_id,omitempty"`
	Order        *Order   `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return
}

// Purchased reports whether a completed order has been attached to the item.
func (ci *CartItem) Purchased() bool {
	return ci.OrderID != nil && *ci.OrderID != ""
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is written by the checkout workflow. Cart items only point at it.
type Order struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID    string    `gorm:"size:36;index"`
	OrderCode string    `gorm:"type:varchar(255);unique;not null" json:"order_code"`
	OrderedAt time.Time `gorm:"not null" json:"ordered_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

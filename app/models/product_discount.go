package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDiscountOutOfRange = errors.New("discount percentage must be between 0 and 100")

// ProductDiscount is a percentage markdown attached to a product. Several may
// coexist; calc.BestDiscount decides which one applies.
type ProductDiscount struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID string    `gorm:"size:36;index;not null" json:"product_id"`
	DisPrc    int       `gorm:"not null" json:"dis_prc"`
	Priority  int       `gorm:"not null;default:0" json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *ProductDiscount) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}

func (d *ProductDiscount) BeforeSave(tx *gorm.DB) error {
	if d.DisPrc < 0 || d.DisPrc > 100 {
		return ErrDiscountOutOfRange
	}
	return nil
}

package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNegativePrice      = errors.New("product price must not be negative")
	ErrNegativeLimitCount = errors.New("product limit count must not be negative")
)

type Product struct {
	ID               string            `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name             string            `gorm:"size:255;not null" json:"name"`
	Description      string            `gorm:"type:text" json:"description"`
	Price            int64             `gorm:"not null" json:"price"`
	LimitCount       int               `gorm:"not null" json:"limit_count"`
	LargeCatCd       string            `gorm:"size:20;index" json:"large_cat_cd"`
	SmallCatCd       string            `gorm:"size:20;index" json:"small_cat_cd"`
	PurchaseCount    int               `gorm:"not null;default:0;index" json:"purchase_count"`
	ThumbnailURL     string            `gorm:"size:255" json:"thumbnail_url"`
	ProductDiscounts []ProductDiscount `gorm:"foreignKey:ProductID" json:"discounts"`
	CreatedAt        time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.LimitCount < 0 {
		return ErrNegativeLimitCount
	}
	return nil
}

package migrations

import (
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.ProductDiscount{}, &models.Order{}, &models.CartItem{})
}

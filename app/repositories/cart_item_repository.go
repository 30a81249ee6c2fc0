package repositories

import (
	"context"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"gorm.io/gorm"
)

type CartItemRepository struct {
	DB *gorm.DB
}

type CartItemRepositoryImpl interface {
	Add(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, item *models.CartItem) error
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	GetActiveByUserPaginated(ctx context.Context, userID string, limit, offset int) ([]models.CartItem, int64, error)
	GetActiveByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID string) ([]models.CartItem, error)
	CountActiveByUser(ctx context.Context, userID string) (int, error)
}

func NewCartItemRepository(db *gorm.DB) CartItemRepositoryImpl {
	return &CartItemRepository{db}
}

func (r *CartItemRepository) Add(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *CartItemRepository) Delete(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Delete(item).Error
}

func (r *CartItemRepository) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *CartItemRepository) GetActiveByUserPaginated(ctx context.Context, userID string, limit, offset int) ([]models.CartItem, int64, error) {
	var items []models.CartItem
	var total int64

	if err := r.activeByUser(ctx, userID).Model(&models.CartItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.activeByUser(ctx, userID).
		Preload("Product.ProductDiscounts").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error

	return items, total, err
}

func (r *CartItemRepository) GetActiveByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.activeByUser(ctx, userID).
		Preload("Product.ProductDiscounts").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemRepository) GetByUserAndProduct(ctx context.Context, userID, productID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemRepository) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.activeByUser(ctx, userID).
		Model(&models.CartItem{}).
		Count(&count).Error

	return int(count), err
}

func (r *CartItemRepository) activeByUser(ctx context.Context, userID string) *gorm.DB {
	return r.DB.WithContext(ctx).Where("user_id = ? AND active = ?", userID, true)
}

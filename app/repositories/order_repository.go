package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"gorm.io/gorm"
)

var ErrCartItemsUnavailable = errors.New("cart items are not active or not owned by the order's user")

type OrderRepositoryImpl interface {
	CreateFromCart(ctx context.Context, order *models.Order, cartItemIDs []string) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepositoryImpl {
	return &gormOrderRepository{db: db}
}

// CreateFromCart saves the order and, in the same transaction, attaches the
// given active cart items to it, deactivates them and adds their quantities
// to the products' purchase counts.
func (r *gormOrderRepository) CreateFromCart(ctx context.Context, order *models.Order, cartItemIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		err := tx.Where("id IN ? AND user_id = ? AND active = ?", cartItemIDs, order.UserID, true).
			Find(&items).Error
		if err != nil {
			return err
		}
		if len(items) == 0 || len(items) != len(cartItemIDs) {
			return ErrCartItemsUnavailable
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range items {
			err := tx.Model(&models.CartItem{}).Where("id = ?", item.ID).
				Updates(map[string]interface{}{"order_id": order.ID, "active": false}).Error
			if err != nil {
				return fmt.Errorf("failed to attach cart item %s: %w", item.ID, err)
			}

			err = tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				UpdateColumn("purchase_count", gorm.Expr("purchase_count + ?", item.ProductCount)).Error
			if err != nil {
				return fmt.Errorf("failed to update purchase count of %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("ordered_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

package seeders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/db/fakers"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	ProductsPerCategory int
	Shoppers            int
	AdminLoginID        string
	AdminPassword       string
	ShopperPassword     string
}

func DefaultOptions() Options {
	return Options{
		ProductsPerCategory: 12,
		Shoppers:            3,
		AdminLoginID:        "admin",
		AdminPassword:       "admin1234",
		ShopperPassword:     "shopper1234",
	}
}

type categorySeed struct {
	code, name string
	children   [][2]string
}

var catalog = []categorySeed{
	{"FASHION", "Fashion", [][2]string{{"TOP", "Tops"}, {"BOTTOM", "Bottoms"}, {"SHOES", "Shoes"}}},
	{"KITCHEN", "Kitchen", [][2]string{{"POT", "Pots & pans"}, {"TABLEWARE", "Tableware"}}},
	{"DIGITAL", "Digital", [][2]string{{"AUDIO", "Audio"}, {"CAMERA", "Cameras"}}},
}

// DBSeed fills an empty database with categories, products and accounts. It
// is a no-op when products already exist.
func DBSeed(ctx context.Context, db *gorm.DB, opts Options, logger *zap.Logger) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		logger.Info("DBSeed: database already seeded", zap.Int64("products", existing))
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryRepo := repositories.NewCategoryRepository(tx)
		productRepo := repositories.NewProductRepository(tx)
		userRepo := repositories.NewUserRepository(tx)
		cartRepo := repositories.NewCartItemRepository(tx)
		orderRepo := repositories.NewOrderRepository(tx)

		var first *models.Product
		products := 0
		for i, large := range catalog {
			parent := large.code
			if err := categoryRepo.Create(ctx, &models.Category{Code: large.code, Name: large.name, SortOrder: i}); err != nil {
				return fmt.Errorf("failed to create category %s: %w", large.code, err)
			}
			for j, child := range large.children {
				small := models.Category{Code: child[0], Name: child[1], ParentCode: &parent, SortOrder: j}
				if err := categoryRepo.Create(ctx, &small); err != nil {
					return fmt.Errorf("failed to create category %s: %w", small.Code, err)
				}
				for k := 0; k < opts.ProductsPerCategory; k++ {
					product := fakers.ProductFaker(small)
					if err := productRepo.Create(ctx, product); err != nil {
						return fmt.Errorf("failed to create product: %w", err)
					}
					if first == nil {
						first = product
					}
					products++
				}
			}
		}

		adminLoginID := opts.AdminLoginID
		admin := &models.User{
			LoginID:  &adminLoginID,
			Email:    adminLoginID + "@shoppingmall.local",
			Name:     "Administrator",
			Password: opts.AdminPassword,
			Role:     models.RoleAdmin,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		for i := 1; i <= opts.Shoppers; i++ {
			shopper := fakers.UserFaker(fmt.Sprintf("shopper%d", i), opts.ShopperPassword)
			if err := userRepo.Create(ctx, shopper); err != nil {
				return fmt.Errorf("failed to create shopper %d: %w", i, err)
			}
			// the first shopper has already bought the first product
			if i == 1 && first != nil {
				if err := seedPurchase(ctx, cartRepo, orderRepo, shopper, first); err != nil {
					return err
				}
			}
		}

		logger.Info("DBSeed: seeded database",
			zap.Int("categories", countCategories()),
			zap.Int("products", products),
			zap.Int("shoppers", opts.Shoppers))
		return nil
	})
}

func seedPurchase(ctx context.Context, carts repositories.CartItemRepositoryImpl, orders repositories.OrderRepositoryImpl, user *models.User, product *models.Product) error {
	item := &models.CartItem{UserID: user.ID, ProductID: product.ID, ProductCount: 1, Active: true}
	if err := carts.Add(ctx, item); err != nil {
		return fmt.Errorf("failed to seed cart item: %w", err)
	}

	order := &models.Order{
		UserID:    user.ID,
		OrderCode: "SEED-" + strings.ToUpper(uuid.NewString()[:8]),
		OrderedAt: time.Now(),
	}
	if err := orders.CreateFromCart(ctx, order, []string{item.ID}); err != nil {
		return fmt.Errorf("failed to seed order: %w", err)
	}
	return nil
}

func countCategories() int {
	n := 0
	for _, large := range catalog {
		n += 1 + len(large.children)
	}
	return n
}

package repositories

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByCode(ctx context.Context, code string) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetLarge(ctx context.Context) ([]models.Category, error)
	GetChildren(ctx context.Context, parentCode string) ([]models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByCode(ctx context.Context, code string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "code = ?", code).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC").Order("code ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetLarge(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_code IS NULL").
		Order("sort_order ASC").
		Order("code ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get large categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetChildren(ctx context.Context, parentCode string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_code = ?", parentCode).
		Order("sort_order ASC").
		Order("code ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get categories under %s: %w", parentCode, err)
	}
	return categories, nil
}

package repositories

import (
	"context"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderBy is one ORDER BY term. Column must be a products column name.
type OrderBy struct {
	Column string
	Desc   bool
}

// ProductFilter narrows a catalog page. Nil fields do not filter; a set field
// matches the category code exactly, even when empty.
type ProductFilter struct {
	LargeCatCd *string
	SmallCatCd *string
}

func ByLargeCategory(code string) ProductFilter {
	return ProductFilter{LargeCatCd: &code}
}

func BySmallCategory(code string) ProductFilter {
	return ProductFilter{SmallCatCd: &code}
}

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetPaginated(ctx context.Context, filter ProductFilter, order []OrderBy, limit, offset int) ([]models.Product, int64, error)
	GetTopByPurchaseCount(ctx context.Context, limit int) ([]models.Product, error)
	GetNewest(ctx context.Context, limit int) ([]models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("ProductDiscounts").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetPaginated(ctx context.Context, filter ProductFilter, order []OrderBy, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := p.filtered(ctx, filter).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := p.filtered(ctx, filter).Preload("ProductDiscounts")
	for _, o := range order {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}

	err := query.
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) GetTopByPurchaseCount(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("ProductDiscounts").
		Order("purchase_count DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (p *productRepository) GetNewest(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("ProductDiscounts").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (p *productRepository) filtered(ctx context.Context, filter ProductFilter) *gorm.DB {
	query := p.db.WithContext(ctx)
	if filter.LargeCatCd != nil {
		query = query.Where("large_cat_cd = ?", *filter.LargeCatCd)
	}
	if filter.SmallCatCd != nil {
		query = query.Where("small_cat_cd = ?", *filter.SmallCatCd)
	}
	return query
}

package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/calc"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/pagination"
	"go.uber.org/zap"
)

const (
	ProductPageSize = 9
	CartPageSize    = 5

	bestSellerLimit = 10
	newestLimit     = 8
)

// Sort codes accepted by ListByKeyword.
const (
	SortNew       = "new"
	SortPast      = "past"
	SortHighPrice = "highPrice"
	SortLowPrice  = "lowPrice"
	SortHighSell  = "highSell"
	SortLowSell   = "lowSell"
)

var newestFirst = repositories.OrderBy{Column: "created_at", Desc: true}

var sortOrders = map[string][]repositories.OrderBy{
	SortNew:       {newestFirst},
	SortPast:      {{Column: "created_at", Desc: false}},
	SortHighPrice: {{Column: "price", Desc: true}, newestFirst},
	SortLowPrice:  {{Column: "price", Desc: false}, newestFirst},
	SortHighSell:  {{Column: "purchase_count", Desc: true}, newestFirst},
	SortLowSell:   {{Column: "purchase_count", Desc: false}, newestFirst},
}

// ResolveSort maps a sort code onto the ordering applied by the catalog store.
func ResolveSort(code string) ([]repositories.OrderBy, error) {
	order, ok := sortOrders[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortCode, code)
	}
	out := make([]repositories.OrderBy, len(order))
	copy(out, order)
	return out, nil
}

// ProductResponse is a catalog entry with its pricing already resolved.
type ProductResponse struct {
	ID              string
	Name            string
	Description     string
	Price           int64
	LimitCount      int
	LargeCatCd      string
	SmallCatCd      string
	PurchaseCount   int
	ThumbnailURL    string
	DiscountPercent int
	SalePrice       int64
}

type MainProductResponse struct {
	ID              string
	Name            string
	Price           int64
	ThumbnailURL    string
	PurchaseCount   int
	DiscountPercent int
	SalePrice       int64
}

type ProductPage struct {
	Items  []ProductResponse
	Paging pagination.PagingInfo
}

func NewProductResponse(p *models.Product) ProductResponse {
	pct := calc.EffectiveDiscountPercent(p.ProductDiscounts)
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		LimitCount:      p.LimitCount,
		LargeCatCd:      p.LargeCatCd,
		SmallCatCd:      p.SmallCatCd,
		PurchaseCount:   p.PurchaseCount,
		ThumbnailURL:    p.ThumbnailURL,
		DiscountPercent: pct,
		SalePrice:       calc.SalePrice(p.Price, pct),
	}
}

func NewMainProductResponse(p *models.Product) MainProductResponse {
	pct := calc.EffectiveDiscountPercent(p.ProductDiscounts)
	return MainProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		ThumbnailURL:    p.ThumbnailURL,
		PurchaseCount:   p.PurchaseCount,
		DiscountPercent: pct,
		SalePrice:       calc.SalePrice(p.Price, pct),
	}
}

type ProductService struct {
	productRepo repositories.ProductRepositoryImpl
	logger      *zap.Logger
}

func NewProductService(productRepo repositories.ProductRepositoryImpl, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// ListByCategory pages through a small category, newest first. The "ALL"
// code disables the filter.
func (s *ProductService) ListByCategory(ctx context.Context, catCd string, page int) (*ProductPage, error) {
	filter := repositories.ProductFilter{}
	if catCd != models.CategoryAll {
		filter = repositories.BySmallCategory(catCd)
	}
	return s.list(ctx, filter, []repositories.OrderBy{newestFirst}, page)
}

// ListByKeyword pages through a large category using one of the sort codes.
func (s *ProductService) ListByKeyword(ctx context.Context, page int, largeCatCd, sortCd string) (*ProductPage, error) {
	order, err := ResolveSort(sortCd)
	if err != nil {
		return nil, err
	}

	filter := repositories.ProductFilter{}
	if largeCatCd != models.CategoryAll {
		filter = repositories.ByLargeCategory(largeCatCd)
	}
	return s.list(ctx, filter, order, page)
}

func (s *ProductService) list(ctx context.Context, filter repositories.ProductFilter, order []repositories.OrderBy, page int) (*ProductPage, error) {
	page = pagination.NormalizePage(page)

	products, total, err := s.productRepo.GetPaginated(ctx, filter, order, ProductPageSize, pagination.Offset(page, ProductPageSize))
	if err != nil {
		s.logger.Error("ProductService.list: query failed",
			zap.Stringp("large_cat_cd", filter.LargeCatCd),
			zap.Stringp("small_cat_cd", filter.SmallCatCd),
			zap.Int("page", page),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, NewProductResponse(&products[i]))
	}

	return &ProductPage{
		Items:  items,
		Paging: pagination.New(total, page, ProductPageSize),
	}, nil
}

func (s *ProductService) GetDetails(ctx context.Context, productID string) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := NewProductResponse(product)
	return &resp, nil
}

func (s *ProductService) BestSellers(ctx context.Context) ([]MainProductResponse, error) {
	products, err := s.productRepo.GetTopByPurchaseCount(ctx, bestSellerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get best sellers: %w", err)
	}
	return toMainResponses(products), nil
}

func (s *ProductService) Newest(ctx context.Context) ([]MainProductResponse, error) {
	products, err := s.productRepo.GetNewest(ctx, newestLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get newest products: %w", err)
	}
	return toMainResponses(products), nil
}

// ReviewProductName returns the name shown on the review form.
func (s *ProductService) ReviewProductName(ctx context.Context, productID string) (string, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	return product.Name, nil
}

func (s *ProductService) findProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if product == nil {
		return nil, ErrNotFoundProduct
	}
	return product, nil
}

func toMainResponses(products []models.Product) []MainProductResponse {
	out := make([]MainProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewMainProductResponse(&products[i]))
	}
	return out
}

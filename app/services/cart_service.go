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

// CartItemResponse is one cart row with the product's current pricing.
type CartItemResponse struct {
	ID              string
	ProductID       string
	ProductName     string
	ThumbnailURL    string
	ProductCount    int
	Price           int64
	DiscountPercent int
	SalePrice       int64
	LineTotal       int64
}

// CartListing is one page of a user's active cart. CartItemIDs and
// CheckoutTotal always cover every active item, not just the page.
type CartListing struct {
	Items         []CartItemResponse
	Paging        pagination.PagingInfo
	CartItemIDs   []string
	CheckoutTotal int64
}

type CartService struct {
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	userRepo     repositories.UserRepositoryImpl
	logger       *zap.Logger
}

func NewCartService(cartItemRepo repositories.CartItemRepositoryImpl, productRepo repositories.ProductRepositoryImpl, userRepo repositories.UserRepositoryImpl, logger *zap.Logger) *CartService {
	return &CartService{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// AddToCart stores a new active cart row. Repeated adds of the same product
// create separate rows.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, qty int) (*models.CartItem, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFoundUser
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFoundProduct
	}

	if qty > product.LimitCount {
		s.logger.Info("CartService.AddToCart: inventory exceeded",
			zap.String("product_id", productID),
			zap.Int("requested", qty),
			zap.Int("limit", product.LimitCount))
		return nil, ErrInsufficientInventory
	}

	item := &models.CartItem{
		UserID:       user.ID,
		ProductID:    product.ID,
		ProductCount: qty,
		Active:       true,
	}
	if err := s.cartItemRepo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	item.Product = product
	return item, nil
}

// ListCart returns one page of the user's active cart. The boolean is false
// when the user has nothing in the cart.
func (s *CartService) ListCart(ctx context.Context, userID string, page int) (*CartListing, bool, error) {
	page = pagination.NormalizePage(page)

	items, total, err := s.cartItemRepo.GetActiveByUserPaginated(ctx, userID, CartPageSize, pagination.Offset(page, CartPageSize))
	if err != nil {
		return nil, false, fmt.Errorf("failed to list cart: %w", err)
	}
	if total == 0 {
		return nil, false, nil
	}

	all, err := s.cartItemRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load cart totals: %w", err)
	}

	listing := &CartListing{
		Items:       make([]CartItemResponse, 0, len(items)),
		Paging:      pagination.New(total, page, CartPageSize),
		CartItemIDs: make([]string, 0, len(all)),
	}
	for i := range items {
		listing.Items = append(listing.Items, newCartItemResponse(&items[i]))
	}

	lines := make([]calc.CartLine, 0, len(all))
	for _, it := range all {
		listing.CartItemIDs = append(listing.CartItemIDs, it.ID)
		lines = append(lines, calc.CartLine{Product: it.Product, Qty: it.ProductCount})
	}
	listing.CheckoutTotal = calc.CheckoutTotal(lines)

	return listing, true, nil
}

// RemoveFromCart permanently deletes a cart row owned by the user.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, cartItemID string) error {
	item, err := s.cartItemRepo.GetByID(ctx, cartItemID)
	if err != nil {
		return fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil || item.UserID != userID {
		return ErrNotFoundCart
	}

	if err := s.cartItemRepo.Delete(ctx, item); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// CheckReviewAuthority succeeds when at least one of the user's cart rows for
// the product has been attached to an order.
func (s *CartService) CheckReviewAuthority(ctx context.Context, userID, productID string) (bool, error) {
	items, err := s.cartItemRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase history: %w", err)
	}
	for i := range items {
		if items[i].Purchased() {
			return true, nil
		}
	}
	return false, ErrAuthorizationDenied
}

// CountItems backs the cart badge in the page header.
func (s *CartService) CountItems(ctx context.Context, userID string) (int, error) {
	return s.cartItemRepo.CountActiveByUser(ctx, userID)
}

func newCartItemResponse(item *models.CartItem) CartItemResponse {
	resp := CartItemResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductCount: item.ProductCount,
	}
	if item.Product == nil {
		return resp
	}
	pct := calc.EffectiveDiscountPercent(item.Product.ProductDiscounts)
	resp.ProductName = item.Product.Name
	resp.ThumbnailURL = item.Product.ThumbnailURL
	resp.Price = item.Product.Price
	resp.DiscountPercent = pct
	resp.SalePrice = calc.SalePrice(item.Product.Price, pct)
	resp.LineTotal = calc.LineTotal(resp.SalePrice, item.ProductCount)
	return resp
}

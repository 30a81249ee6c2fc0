package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/breadcrumb"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CartHandler struct {
	render    *render.Render
	cartSvc   *services.CartService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewCartHandler(r *render.Render, cartSvc *services.CartService, validate *validator.Validate, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		render:    r,
		cartSvc:   cartSvc,
		validator: validate,
		logger:    logger,
	}
}

type AddToCartForm struct {
	ProductID    string `validate:"required"`
	ProductCount int    `validate:"required,min=1"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserIDFromContext(r)
	page := helpers.QueryInt(r, "page", 1)

	listing, ok, err := h.cartSvc.ListCart(r.Context(), userID, page)
	if err != nil {
		h.logger.Error("CartHandler.GetCart: failed to list cart", zap.String("user_id", userID), zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	data := map[string]interface{}{
		"Title":       "Cart",
		"IsEmpty":     !ok,
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Cart", URL: "/cart"}),
	}
	if ok {
		data["Cart"] = listing
		data["Paging"] = listing.Paging
		data["PageBaseURL"] = "/cart?"
	}

	_ = h.render.HTML(w, http.StatusOK, "cart", helpers.GetBaseData(r, data))
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserIDFromContext(r)

	if err := r.ParseForm(); err != nil {
		helpers.FlashRedirect(w, r, "/products", "error", "Could not read the form.")
		return
	}

	count, _ := strconv.Atoi(r.PostFormValue("productCount"))
	form := AddToCartForm{
		ProductID:    r.PostFormValue("productId"),
		ProductCount: count,
	}
	back := "/products/" + form.ProductID

	if err := h.validator.Struct(form); err != nil {
		helpers.FlashRedirect(w, r, back, "error", "Choose a quantity of at least one.")
		return
	}

	_, err := h.cartSvc.AddToCart(r.Context(), userID, form.ProductID, form.ProductCount)
	switch {
	case err == nil:
		helpers.FlashRedirect(w, r, "/cart", "success", "Added to your cart.")
	case errors.Is(err, services.ErrInsufficientInventory):
		helpers.FlashRedirect(w, r, back, "error", "Not enough stock for that quantity.")
	case errors.Is(err, services.ErrNotFoundProduct):
		helpers.FlashRedirect(w, r, "/products", "error", "That product no longer exists.")
	case errors.Is(err, services.ErrNotFoundUser):
		helpers.FlashRedirect(w, r, "/login", "error", "Please log in again.")
	default:
		h.logger.Error("CartHandler.AddToCart: failed", zap.String("user_id", userID), zap.String("product_id", form.ProductID), zap.Error(err))
		helpers.FlashRedirect(w, r, back, "error", "Could not add to cart. Please try again.")
	}
}

func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserIDFromContext(r)
	cartItemID := mux.Vars(r)["id"]

	err := h.cartSvc.RemoveFromCart(r.Context(), userID, cartItemID)
	switch {
	case err == nil:
		helpers.FlashRedirect(w, r, "/cart", "success", "Removed from your cart.")
	case errors.Is(err, services.ErrNotFoundCart):
		helpers.FlashRedirect(w, r, "/cart", "error", "That cart item was not found.")
	default:
		h.logger.Error("CartHandler.RemoveCartItem: failed", zap.String("user_id", userID), zap.String("cart_item_id", cartItemID), zap.Error(err))
		helpers.FlashRedirect(w, r, "/cart", "error", "Could not remove the item. Please try again.")
	}
}

// Checkout shows the order summary for every active cart item.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserIDFromContext(r)

	listing, ok, err := h.cartSvc.ListCart(r.Context(), userID, 1)
	if err != nil {
		h.logger.Error("CartHandler.Checkout: failed to list cart", zap.String("user_id", userID), zap.Error(err))
		serverError(h.render, w, r)
		return
	}
	if !ok {
		helpers.FlashRedirect(w, r, "/cart", "error", "Your cart is empty.")
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "checkout", helpers.GetBaseData(r, map[string]interface{}{
		"Title":         "Checkout",
		"CheckoutTotal": listing.CheckoutTotal,
		"CartItemIDs":   listing.CartItemIDs,
		"ItemCount":     len(listing.CartItemIDs),
		"Breadcrumbs": breadcrumb.Trail(
			breadcrumb.Breadcrumb{Name: "Cart", URL: "/cart"},
			breadcrumb.Breadcrumb{Name: "Checkout", URL: "/checkout"},
		),
	}))
}

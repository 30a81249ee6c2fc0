package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/breadcrumb"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	render     *render.Render
	productSvc *services.ProductService
	cartSvc    *services.CartService
	logger     *zap.Logger
}

func NewReviewHandler(r *render.Render, productSvc *services.ProductService, cartSvc *services.CartService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		render:     r,
		productSvc: productSvc,
		cartSvc:    cartSvc,
		logger:     logger,
	}
}

type reviewAuthorityResponse struct {
	Authorized bool   `json:"authorized"`
	Message    string `json:"message,omitempty"`
}

// Authority answers whether the user has bought the product.
func (h *ReviewHandler) Authority(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserIDFromContext(r)
	productID := r.URL.Query().Get("productId")

	_, err := h.cartSvc.CheckReviewAuthority(r.Context(), userID, productID)
	switch {
	case err == nil:
		_ = h.render.JSON(w, http.StatusOK, reviewAuthorityResponse{Authorized: true})
	case errors.Is(err, services.ErrAuthorizationDenied):
		_ = h.render.JSON(w, http.StatusForbidden, reviewAuthorityResponse{Message: "Only buyers of this product can write a review."})
	default:
		h.logger.Error("ReviewHandler.Authority: check failed", zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		_ = h.render.JSON(w, http.StatusInternalServerError, reviewAuthorityResponse{Message: "internal server error"})
	}
}

func (h *ReviewHandler) NewReview(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserIDFromContext(r)
	productID := r.URL.Query().Get("productId")

	if _, err := h.cartSvc.CheckReviewAuthority(r.Context(), userID, productID); err != nil {
		if errors.Is(err, services.ErrAuthorizationDenied) {
			helpers.FlashRedirect(w, r, "/products/"+productID, "error", "Only buyers of this product can write a review.")
			return
		}
		h.logger.Error("ReviewHandler.NewReview: authority check failed", zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	name, err := h.productSvc.ReviewProductName(r.Context(), productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFoundProduct) {
			notFound(h.render, w, r, "The product you are looking for does not exist.")
			return
		}
		h.logger.Error("ReviewHandler.NewReview: product lookup failed", zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "review", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Write a review",
		"ProductID":   productID,
		"ProductName": name,
		"Breadcrumbs": breadcrumb.Trail(
			breadcrumb.Breadcrumb{Name: name, URL: "/products/" + productID},
			breadcrumb.Breadcrumb{Name: "Review", URL: "/review/new?productId=" + productID},
		),
	}))
}

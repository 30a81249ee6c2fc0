package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type HomeHandler struct {
	render       *render.Render
	productSvc   *services.ProductService
	categoryRepo repositories.CategoryRepositoryImpl
	logger       *zap.Logger
}

func NewHomeHandler(r *render.Render, productSvc *services.ProductService, categoryRepo repositories.CategoryRepositoryImpl, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{
		render:       r,
		productSvc:   productSvc,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bestSellers, err := h.productSvc.BestSellers(ctx)
	if err != nil {
		h.logger.Error("HomeHandler.Home: failed to load best sellers", zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	newest, err := h.productSvc.Newest(ctx)
	if err != nil {
		h.logger.Error("HomeHandler.Home: failed to load newest products", zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	categories, err := h.categoryRepo.GetLarge(ctx)
	if err != nil {
		h.logger.Warn("HomeHandler.Home: failed to load categories", zap.Error(err))
	}

	_ = h.render.HTML(w, http.StatusOK, "home", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Home",
		"BestSellers": bestSellers,
		"Newest":      newest,
		"Categories":  categories,
	}))
}

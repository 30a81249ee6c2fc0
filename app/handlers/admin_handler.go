package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/breadcrumb"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AdminHandler struct {
	render     *render.Render
	productSvc *services.ProductService
	userSvc    *services.UserService
	logger     *zap.Logger
}

func NewAdminHandler(r *render.Render, productSvc *services.ProductService, userSvc *services.UserService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{render: r, productSvc: productSvc, userSvc: userSvc, logger: logger}
}

// Dashboard is the admin landing page with the current best sellers.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	best, err := h.productSvc.BestSellers(r.Context())
	if err != nil {
		h.logger.Error("AdminHandler.Dashboard: failed to load best sellers", zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "admin", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Admin",
		"BestSellers": best,
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Admin", URL: "/admin"}),
	}))
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	page := helpers.QueryInt(r, "page", 1)

	result, err := h.userSvc.ListUsers(r.Context(), page)
	if err != nil {
		h.logger.Error("AdminHandler.Users: failed to list users", zap.Int("page", page), zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "admin-users", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Users",
		"Users":       result.Users,
		"Paging":      result.Paging,
		"PageBaseURL": "/admin/users?",
		"Breadcrumbs": breadcrumb.Trail(
			breadcrumb.Breadcrumb{Name: "Admin", URL: "/admin"},
			breadcrumb.Breadcrumb{Name: "Users", URL: "/admin/users"},
		),
	}))
}

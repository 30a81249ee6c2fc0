package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ProductHandler struct {
	render       *render.Render
	productSvc   *services.ProductService
	categoryRepo repositories.CategoryRepositoryImpl
	logger       *zap.Logger
}

func NewProductHandler(r *render.Render, productSvc *services.ProductService, categoryRepo repositories.CategoryRepositoryImpl, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		render:       r,
		productSvc:   productSvc,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// SortOption is one entry of the search page's sort selector.
type SortOption struct {
	Code  string
	Label string
}

var sortOptions = []SortOption{
	{services.SortNew, "Newest"},
	{services.SortPast, "Oldest"},
	{services.SortHighPrice, "Price: high to low"},
	{services.SortLowPrice, "Price: low to high"},
	{services.SortHighSell, "Best selling"},
	{services.SortLowSell, "Least selling"},
}

// Products lists a small category, newest first.
func (h *ProductHandler) Products(w http.ResponseWriter, r *http.Request) {
	catCd := r.URL.Query().Get("catCd")
	if catCd == "" {
		catCd = models.CategoryAll
	}
	page := helpers.QueryInt(r, "page", 1)

	result, err := h.productSvc.ListByCategory(r.Context(), catCd, page)
	if err != nil {
		h.logger.Error("ProductHandler.Products: listing failed", zap.String("cat_cd", catCd), zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "products", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Products",
		"Products":    result.Items,
		"Paging":      result.Paging,
		"CatCd":       catCd,
		"PageBaseURL": pageBaseURL("/products", url.Values{"catCd": {catCd}}),
		"Categories":  h.categoryTree(r),
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Products", URL: "/products"}),
	}))
}

// Search lists a large category ordered by the requested sort code.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	largeCatCd := q.Get("largeCatCd")
	if largeCatCd == "" {
		largeCatCd = models.CategoryAll
	}
	sortCd := q.Get("sortCd")
	if sortCd == "" {
		sortCd = services.SortNew
	}
	page := helpers.QueryInt(r, "page", 1)

	result, err := h.productSvc.ListByKeyword(r.Context(), page, largeCatCd, sortCd)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSortCode) {
			renderError(h.render, w, r, http.StatusBadRequest, "Unknown sort option.")
			return
		}
		h.logger.Error("ProductHandler.Search: listing failed", zap.String("large_cat_cd", largeCatCd), zap.String("sort_cd", sortCd), zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "products", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Search",
		"Products":    result.Items,
		"Paging":      result.Paging,
		"LargeCatCd":  largeCatCd,
		"SortCd":      sortCd,
		"SortOptions": sortOptions,
		"IsSearch":    true,
		"PageBaseURL": pageBaseURL("/products/search", url.Values{"largeCatCd": {largeCatCd}, "sortCd": {sortCd}}),
		"Categories":  h.categoryTree(r),
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Search", URL: "/products/search"}),
	}))
}

// pageBaseURL returns path with the encoded params, ready for "page=N" to be
// appended.
func pageBaseURL(path string, params url.Values) string {
	return path + "?" + params.Encode() + "&"
}

func (h *ProductHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	product, err := h.productSvc.GetDetails(r.Context(), productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFoundProduct) {
			notFound(h.render, w, r, "The product you are looking for does not exist.")
			return
		}
		h.logger.Error("ProductHandler.ProductDetail: lookup failed", zap.String("product_id", productID), zap.Error(err))
		serverError(h.render, w, r)
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "product", helpers.GetBaseData(r, map[string]interface{}{
		"Title":   product.Name,
		"Product": product,
		"Breadcrumbs": breadcrumb.Trail(
			breadcrumb.Breadcrumb{Name: "Products", URL: "/products"},
			breadcrumb.Breadcrumb{Name: product.Name, URL: "/products/" + product.ID},
		),
	}))
}

// CategoryNode is a large category with its small categories.
type CategoryNode struct {
	models.Category
	Children []models.Category
}

func (h *ProductHandler) categoryTree(r *http.Request) []CategoryNode {
	all, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		h.logger.Warn("ProductHandler.categoryTree: failed to load categories", zap.Error(err))
		return nil
	}

	var nodes []CategoryNode
	index := make(map[string]int)
	for _, c := range all {
		if c.IsLarge() {
			index[c.Code] = len(nodes)
			nodes = append(nodes, CategoryNode{Category: c})
		}
	}
	for _, c := range all {
		if c.IsLarge() {
			continue
		}
		if i, ok := index[*c.ParentCode]; ok {
			nodes[i].Children = append(nodes[i].Children, c)
		}
	}
	return nodes
}

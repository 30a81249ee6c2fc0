package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/unrolled/render"
	"gorm.io/gorm"
)

type HealthHandler struct {
	render *render.Render
	db     *gorm.DB
}

func NewHealthHandler(r *render.Render, db *gorm.DB) *HealthHandler {
	return &HealthHandler{render: r, db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	_ = h.render.JSON(w, code, map[string]string{"status": status})
}

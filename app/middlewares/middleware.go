package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"go.uber.org/zap"
)

type CartCounter interface {
	CountItems(ctx context.Context, userID string) (int, error)
}

// CartCountMiddleware puts the signed-in user's active cart size into the
// request context for the header badge.
func CartCountMiddleware(counter CartCounter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := helpers.UserIDFromContext(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			count, err := counter.CountItems(r.Context(), userID)
			if err != nil {
				logger.Warn("CartCountMiddleware: failed to count cart items",
					zap.String("user_id", userID),
					zap.Error(err))
				count = 0
			}

			ctx := context.WithValue(r.Context(), helpers.CartCountKey, count)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MethodOverrideMiddleware lets HTML forms issue DELETE and PUT through a
// hidden _method field.
func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := strings.ToUpper(r.PostFormValue("_method"))
			switch override {
			case http.MethodDelete, http.MethodPut, http.MethodPatch:
				r.Method = override
			}
		}
		next.ServeHTTP(w, r)
	})
}

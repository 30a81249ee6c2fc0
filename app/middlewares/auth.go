package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/sessions"
	"go.uber.org/zap"
)

const (
	DuplicatedLoginPath = "/duplicated-login"
	AccessDeniedPath    = "/accessDenied"
	LoginPath           = "/login"
)

type UserResolver interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	ResolveRememberToken(ctx context.Context, token string) (*models.User, error)
}

// SessionAuthMiddleware resolves the signed-in user from the session cookie,
// falling back to the remember-me cookie. A session whose token was replaced
// by a newer login is sent to the duplicated-login page. A session the
// registry no longer knows is dropped and the remember-me cookie gets a try.
func SessionAuthMiddleware(store sessions.SessionStore, registry sessions.SessionRegistry, users UserResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var user *models.User
			resolved, stale := false, false

			if userID := store.GetUserID(r); userID != "" {
				state, err := registry.Check(ctx, userID, store.GetSessionToken(r))
				if err != nil {
					logger.Error("SessionAuthMiddleware: session registry unavailable", zap.String("user_id", userID), zap.Error(err))
					next.ServeHTTP(w, r)
					return
				}

				switch state {
				case sessions.SessionSuperseded:
					logger.Info("SessionAuthMiddleware: superseded session", zap.String("user_id", userID))
					_ = store.ClearSession(w, r)
					helpers.ClearCookie(w, helpers.RememberMeCookieName, store.Secure())
					http.Redirect(w, r, DuplicatedLoginPath, http.StatusFound)
					return
				case sessions.SessionMissing:
					logger.Info("SessionAuthMiddleware: session not registered", zap.String("user_id", userID))
					stale = true
				default:
					resolved = true
					user, err = users.GetByID(ctx, userID)
					if err != nil {
						if !errors.Is(err, services.ErrNotFoundUser) {
							logger.Error("SessionAuthMiddleware: failed to load user", zap.String("user_id", userID), zap.Error(err))
						}
						_ = store.ClearSession(w, r)
						user = nil
					}
				}
			}

			if !resolved {
				if token, err := helpers.GetCookie(r, helpers.RememberMeCookieName); err == nil && token != "" {
					user = restoreRememberedLogin(w, r, token, store, registry, users, logger)
				}
			}
			if stale && user == nil {
				_ = store.ClearSession(w, r)
			}

			if user != nil {
				ctx = context.WithValue(ctx, helpers.ContextKeyUserID, user.ID)
				ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func restoreRememberedLogin(w http.ResponseWriter, r *http.Request, token string, store sessions.SessionStore, registry sessions.SessionRegistry, users UserResolver, logger *zap.Logger) *models.User {
	user, err := users.ResolveRememberToken(r.Context(), token)
	if err != nil {
		logger.Error("SessionAuthMiddleware: remember-me lookup failed", zap.Error(err))
		return nil
	}
	if user == nil {
		helpers.ClearCookie(w, helpers.RememberMeCookieName, store.Secure())
		return nil
	}

	sessionToken, err := registry.Register(r.Context(), user.ID)
	if err != nil {
		logger.Error("SessionAuthMiddleware: failed to register remembered session", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}
	if err := store.SetLogin(w, r, user.ID, sessionToken); err != nil {
		logger.Error("SessionAuthMiddleware: failed to save session", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}

	logger.Info("SessionAuthMiddleware: session restored from remember-me", zap.String("user_id", user.ID))
	return user
}

// RequireRole sends anonymous visitors to the login page and signed-in users
// without one of the roles to the access denied page.
func RequireRole(logger *zap.Logger, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := helpers.UserFromContext(r)
			if !ok {
				http.Redirect(w, r, LoginPath+"?status=error&message="+url.QueryEscape("Please log in to continue."), http.StatusFound)
				return
			}

			for _, role := range allowedRoles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("User role not authorized",
				zap.String("user_id", user.ID),
				zap.String("role", user.Role),
				zap.Strings("allowed_roles", allowedRoles))
			http.Redirect(w, r, AccessDeniedPath, http.StatusFound)
		})
	}
}

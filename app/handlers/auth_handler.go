package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/breadcrumb"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AuthHandler struct {
	render   *render.Render
	userSvc  *services.UserService
	oauthSvc *services.OAuthService
	store    sessions.SessionStore
	registry sessions.SessionRegistry
	logger   *zap.Logger
}

func NewAuthHandler(r *render.Render, userSvc *services.UserService, oauthSvc *services.OAuthService, store sessions.SessionStore, registry sessions.SessionRegistry, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		render:   r,
		userSvc:  userSvc,
		oauthSvc: oauthSvc,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := helpers.UserFromContext(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	_ = h.render.HTML(w, http.StatusOK, "login", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Login",
		"IsAuthPage":  true,
		"Providers":   h.oauthSvc.Providers(),
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Login", URL: "/login"}),
	}))
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		helpers.FlashRedirect(w, r, "/login", "error", "Could not read the form.")
		return
	}

	loginID := r.PostFormValue("loginId")
	password := r.PostFormValue("password")
	rememberMe := r.PostFormValue("rememberMe") == "on"

	user, err := h.userSvc.Authenticate(r.Context(), loginID, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Info("AuthHandler.LoginPost: invalid credentials", zap.String("login_id", loginID))
			helpers.FlashRedirect(w, r, "/login", "error", "Login ID or password is incorrect.")
			return
		}
		h.logger.Error("AuthHandler.LoginPost: authentication failed", zap.Error(err))
		helpers.FlashRedirect(w, r, "/login", "error", "Something went wrong. Please try again.")
		return
	}

	if err := h.startSession(w, r, user, rememberMe); err != nil {
		h.logger.Error("AuthHandler.LoginPost: failed to start session", zap.String("user_id", user.ID), zap.Error(err))
		helpers.FlashRedirect(w, r, "/login", "error", "Could not create a login session.")
		return
	}

	h.logger.Info("AuthHandler.LoginPost: user logged in", zap.String("user_id", user.ID), zap.Bool("remember_me", rememberMe))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPost creates a form-login account.
func (h *AuthHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		helpers.FlashRedirect(w, r, "/login", "error", "Could not read the form.")
		return
	}

	req := services.RegisterRequest{
		LoginID:  r.PostFormValue("loginId"),
		Password: r.PostFormValue("password"),
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
	}

	_, err := h.userSvc.Register(r.Context(), req)
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			helpers.FlashRedirect(w, r, "/login?tab=register", "error", firstValidationMessage(verrs))
		case errors.Is(err, services.ErrDuplicateUser):
			helpers.FlashRedirect(w, r, "/login?tab=register", "error", "That login ID is already taken.")
		default:
			h.logger.Error("AuthHandler.RegisterPost: registration failed", zap.Error(err))
			helpers.FlashRedirect(w, r, "/login?tab=register", "error", "Registration failed. Please try again.")
		}
		return
	}

	helpers.FlashRedirect(w, r, "/login", "success", "Registration complete. Please log in.")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := helpers.UserFromContext(r); ok {
		ctx := r.Context()
		if err := h.registry.Revoke(ctx, user.ID, h.store.GetSessionToken(r)); err != nil {
			h.logger.Warn("AuthHandler.Logout: failed to revoke session", zap.String("user_id", user.ID), zap.Error(err))
		}
		if err := h.userSvc.ClearRememberToken(ctx, user.ID); err != nil {
			h.logger.Warn("AuthHandler.Logout: failed to clear remember token", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	if err := h.store.ClearSession(w, r); err != nil {
		h.logger.Warn("AuthHandler.Logout: failed to clear session", zap.Error(err))
	}
	helpers.ClearCookie(w, helpers.RememberMeCookieName, h.store.Secure())

	helpers.FlashRedirect(w, r, "/", "success", "You have been logged out.")
}

func (h *AuthHandler) DuplicatedLogin(w http.ResponseWriter, r *http.Request) {
	_ = h.render.HTML(w, http.StatusOK, "duplicated-login", helpers.GetBaseData(r, map[string]interface{}{
		"Title":      "Signed in elsewhere",
		"IsAuthPage": true,
	}))
}

func (h *AuthHandler) AccessDenied(w http.ResponseWriter, r *http.Request) {
	_ = h.render.HTML(w, http.StatusForbidden, "access-denied", helpers.GetBaseData(r, map[string]interface{}{
		"Title": "Access denied",
	}))
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromContext(r)

	_ = h.render.HTML(w, http.StatusOK, "profile", helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "My page",
		"Profile":     user,
		"IsSocial":    user.Role == models.RoleSocial,
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "My page", URL: "/profiles"}),
	}))
}

// startSession registers a fresh session token, which supersedes any other
// session the user still has open, and handles the remember-me cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User, rememberMe bool) error {
	ctx := r.Context()

	token, err := h.registry.Register(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := h.store.SetLogin(w, r, user.ID, token); err != nil {
		return err
	}

	if !rememberMe {
		helpers.ClearCookie(w, helpers.RememberMeCookieName, h.store.Secure())
		return h.userSvc.ClearRememberToken(ctx, user.ID)
	}

	cookieValue, _, err := h.userSvc.IssueRememberToken(ctx, user.ID)
	if err != nil {
		return err
	}
	helpers.SetCookie(w, helpers.RememberMeCookieName, cookieValue, h.userSvc.RememberTTL(), h.store.Secure())
	return nil
}

func firstValidationMessage(verrs validator.ValidationErrors) string {
	messages := helpers.FormatValidationErrors(verrs)
	keys := make([]string, 0, len(messages))
	for k := range messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "Please check the form."
	}
	return messages[keys[0]]
}

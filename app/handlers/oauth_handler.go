package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// OAuthStart redirects to the provider's consent page.
func (h *AuthHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	state := uuid.NewString()

	target, err := h.oauthSvc.AuthCodeURL(provider, state)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedProvider) {
			helpers.FlashRedirect(w, r, "/login", "error", "That login provider is not available.")
			return
		}
		h.logger.Error("AuthHandler.OAuthStart: failed", zap.String("provider", provider), zap.Error(err))
		helpers.FlashRedirect(w, r, "/login", "error", "Social login failed. Please try again.")
		return
	}

	if err := h.store.SetOAuthState(w, r, state); err != nil {
		h.logger.Error("AuthHandler.OAuthStart: failed to save state", zap.Error(err))
		helpers.FlashRedirect(w, r, "/login", "error", "Social login failed. Please try again.")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// OAuthCallback finishes social login and signs in the SOCIAL account.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	q := r.URL.Query()

	expected, err := h.store.PopOAuthState(w, r)
	if err != nil || expected == "" || expected != q.Get("state") {
		h.logger.Warn("AuthHandler.OAuthCallback: state mismatch", zap.String("provider", provider))
		helpers.FlashRedirect(w, r, "/login", "error", "Social login expired. Please try again.")
		return
	}

	if reason := q.Get("error"); reason != "" {
		h.logger.Info("AuthHandler.OAuthCallback: provider returned error", zap.String("provider", provider), zap.String("error", reason))
		helpers.FlashRedirect(w, r, "/login", "error", "Social login was cancelled.")
		return
	}

	profile, err := h.oauthSvc.Exchange(r.Context(), provider, q.Get("code"))
	if err != nil {
		h.logger.Error("AuthHandler.OAuthCallback: exchange failed", zap.String("provider", provider), zap.Error(err))
		helpers.FlashRedirect(w, r, "/login", "error", "Social login failed. Please try again.")
		return
	}

	user, err := h.userSvc.LoginSocial(r.Context(), profile)
	if err != nil {
		h.logger.Error("AuthHandler.OAuthCallback: failed to load social user", zap.String("provider", provider), zap.Error(err))
		helpers.FlashRedirect(w, r, "/login", "error", "Social login failed. Please try again.")
		return
	}

	if err := h.startSession(w, r, user, false); err != nil {
		h.logger.Error("AuthHandler.OAuthCallback: failed to start session", zap.String("user_id", user.ID), zap.Error(err))
		helpers.FlashRedirect(w, r, "/login", "error", "Could not create a login session.")
		return
	}

	h.logger.Info("AuthHandler.OAuthCallback: user logged in", zap.String("user_id", user.ID), zap.String("provider", provider))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

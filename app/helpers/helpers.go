package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/breadcrumb"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID       contextKey = "userID"
	ContextKeyUser         contextKey = "userObject"
	ContextKeySessionToken contextKey = "sessionToken"
	CartCountKey           contextKey = "cart_count"
	RememberMeCookieName              = "remember_token"
)

// UserForTemplate is the subset of a user exposed to templates.
type UserForTemplate struct {
	ID    string
	Name  string
	Email string
	Role  string
}

func GetBaseData(r *http.Request, pageSpecificData map[string]interface{}) map[string]interface{} {
	if pageSpecificData == nil {
		pageSpecificData = make(map[string]interface{})
	}

	defaults := map[string]interface{}{
		"Title":       "Shopping Mall",
		"CartCount":   0,
		"IsLoggedIn":  false,
		"User":        nil,
		"UserID":      "",
		"IsAdmin":     false,
		"IsAuthPage":  false,
		"Query":       r.URL.Query(),
		"CurrentPath": r.URL.Path,
		"Breadcrumbs": []breadcrumb.Breadcrumb{},
		"CSRFField":   csrf.TemplateField(r),
	}
	for k, v := range defaults {
		if _, exists := pageSpecificData[k]; !exists {
			pageSpecificData[k] = v
		}
	}

	if count, ok := r.Context().Value(CartCountKey).(int); ok {
		pageSpecificData["CartCount"] = count
	}

	if user, ok := r.Context().Value(ContextKeyUser).(*models.User); ok && user != nil {
		pageSpecificData["User"] = &UserForTemplate{
			ID:    user.ID,
			Name:  user.DisplayName(),
			Email: user.Email,
			Role:  user.Role,
		}
		pageSpecificData["IsLoggedIn"] = true
		pageSpecificData["UserID"] = user.ID
		pageSpecificData["IsAdmin"] = user.Role == models.RoleAdmin
	}

	pageSpecificData["MessageStatus"] = r.URL.Query().Get("status")
	pageSpecificData["Message"] = r.URL.Query().Get("message")

	return pageSpecificData
}

// UserFromContext returns the user resolved by the session middleware.
func UserFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(ContextKeyUser).(*models.User)
	return user, ok && user != nil
}

func UserIDFromContext(r *http.Request) string {
	userID, _ := r.Context().Value(ContextKeyUserID).(string)
	return userID
}

// FlashRedirect redirects with the status/message query pair read by GetBaseData.
func FlashRedirect(w http.ResponseWriter, r *http.Request, target, status, message string) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	http.Redirect(w, r, target+sep+"status="+url.QueryEscape(status)+"&message="+url.QueryEscape(message), http.StatusSeeOther)
}

// QueryInt reads an integer query parameter, falling back to def.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "email", "mallemail":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", err.Field())
		case "loginid":
			errorMessages[field] = "Login ID must be 5 to 12 characters."
		case "password":
			errorMessages[field] = "Password must be 8 to 15 characters."
		case "phone":
			errorMessages[field] = "Phone must be a mobile number such as 01012345678."
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", err.Field(), err.Tag())
		}
	}
	return errorMessages
}

func SetCookie(w http.ResponseWriter, name, value string, expires time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(expires),
		MaxAge:   int(expires / time.Second),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func GetCookie(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().AddDate(-1, 0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GenerateRememberTokenParts returns a random selector and verifier and the
// "selector.verifier" cookie value built from them.
func GenerateRememberTokenParts() (selector string, verifier string, tokenString string, err error) {
	selectorBytes := make([]byte, 16)
	if _, err := rand.Read(selectorBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate selector: %w", err)
	}
	selector = base64.RawURLEncoding.EncodeToString(selectorBytes)

	verifierBytes := make([]byte, 16)
	if _, err := rand.Read(verifierBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate verifier: %w", err)
	}
	verifier = base64.RawURLEncoding.EncodeToString(verifierBytes)

	tokenString = fmt.Sprintf("%s.%s", selector, verifier)

	return selector, verifier, tokenString, nil
}

func PasswordCompare(logger *zap.Logger, hashPass string, password []byte) bool {
	if err := bcrypt.CompareHashAndPassword([]byte(hashPass), password); err != nil {
		logger.Debug("PasswordCompare: password mismatch", zap.Error(err))
		return false
	}
	return true
}

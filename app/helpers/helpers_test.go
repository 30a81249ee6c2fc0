package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/validation"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestGetBaseData_Anonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products?status=success&message=Saved", nil)

	data := GetBaseData(r, map[string]interface{}{"Title": "Products"})

	assert.Equal(t, "Products", data["Title"])
	assert.Equal(t, false, data["IsLoggedIn"])
	assert.Equal(t, 0, data["CartCount"])
	assert.Equal(t, "/products", data["CurrentPath"])
	assert.Equal(t, "success", data["MessageStatus"])
	assert.Equal(t, "Saved", data["Message"])
}

func TestGetBaseData_SignedIn(t *testing.T) {
	loginID := "shopper1"
	user := &models.User{ID: "u-1", LoginID: &loginID, Email: "s@example.com", Role: models.RoleAdmin}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(r.Context(), ContextKeyUser, user)
	ctx = context.WithValue(ctx, CartCountKey, 3)
	r = r.WithContext(ctx)

	data := GetBaseData(r, nil)

	assert.Equal(t, true, data["IsLoggedIn"])
	assert.Equal(t, true, data["IsAdmin"])
	assert.Equal(t, "u-1", data["UserID"])
	assert.Equal(t, 3, data["CartCount"])
	require.IsType(t, &UserForTemplate{}, data["User"])
	assert.Equal(t, "shopper1", data["User"].(*UserForTemplate).Name)
}

func TestFlashRedirect(t *testing.T) {
	cases := []struct {
		target string
		want   string
	}{
		{"/cart", "/cart?status=error&message=Out+of+stock"},
		{"/login?tab=register", "/login?tab=register&status=error&message=Out+of+stock"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		FlashRedirect(rec, httptest.NewRequest(http.MethodPost, "/cart", nil), tc.target, "error", "Out of stock")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, tc.want, rec.Header().Get("Location"))
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products?page=3&bad=x", nil)
	assert.Equal(t, 3, QueryInt(r, "page", 1))
	assert.Equal(t, 1, QueryInt(r, "bad", 1))
	assert.Equal(t, 7, QueryInt(r, "missing", 7))
}

func TestGenerateRememberTokenParts(t *testing.T) {
	selector, verifier, token, err := GenerateRememberTokenParts()
	require.NoError(t, err)
	assert.Equal(t, selector+"."+verifier, token)
	assert.Equal(t, 1, strings.Count(token, "."))

	other, _, _, err := GenerateRememberTokenParts()
	require.NoError(t, err)
	assert.NotEqual(t, selector, other)
}

func TestPasswordCompare(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, PasswordCompare(zap.NewNop(), string(hash), []byte("password123")))
	assert.False(t, PasswordCompare(zap.NewNop(), string(hash), []byte("password124")))
}

func TestFormatValidationErrors(t *testing.T) {
	type form struct {
		LoginID string `validate:"loginid"`
		Phone   string `validate:"phone"`
		Name    string `validate:"required"`
	}

	err := validation.New().Struct(form{LoginID: "abc", Phone: "12345"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	messages := FormatValidationErrors(verrs)
	assert.Equal(t, "Login ID must be 5 to 12 characters.", messages["loginid"])
	assert.Contains(t, messages["phone"], "mobile number")
	assert.Equal(t, "Name is required.", messages["name"])
}

func TestRememberCookieHonoursSecure(t *testing.T) {
	for _, secure := range []bool{false, true} {
		rec := httptest.NewRecorder()
		SetCookie(rec, RememberMeCookieName, "sel.ver", 24*time.Hour, secure)
		ClearCookie(rec, RememberMeCookieName, secure)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 2)
		assert.Equal(t, "sel.ver", cookies[0].Value)
		assert.Equal(t, 86400, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
		assert.Less(t, cookies[1].MaxAge, 0)
		for _, c := range cookies {
			assert.Equal(t, secure, c.Secure)
		}
	}
}

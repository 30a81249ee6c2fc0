package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/db/testdb"
	"github.com/Rakhulsr/go-shoppingmall/app/middlewares"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/repositories"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/renderer"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testApp struct {
	server  *httptest.Server
	db      *gorm.DB
	product *models.Product
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	db := testdb.New(t)
	ctx := context.Background()

	users := repositories.NewUserRepository(db)
	for _, u := range []struct{ loginID, role string }{
		{"shopper1", models.RoleUser},
		{"manager1", models.RoleAdmin},
	} {
		loginID := u.loginID
		require.NoError(t, users.Create(ctx, &models.User{
			LoginID:  &loginID,
			Email:    loginID + "@example.com",
			Name:     loginID,
			Password: "password123",
			Role:     u.role,
		}))
	}

	product := &models.Product{
		Name:       "Enamel Kettle",
		Price:      20000,
		LimitCount: 5,
		LargeCatCd: "KITCHEN",
		SmallCatCd: "POT",
		ProductDiscounts: []models.ProductDiscount{
			{DisPrc: 10},
		},
	}
	require.NoError(t, repositories.NewProductRepository(db).Create(ctx, product))

	handler := NewRouter(Dependencies{
		DB:          db,
		Render:      renderer.New("../../templates", true),
		Logger:      zap.NewNop(),
		Store:       sessions.NewCookieSessionStore(false, []byte("0123456789abcdef0123456789abcdef")),
		Registry:    sessions.NewMemorySessionRegistry(time.Hour),
		RateLimit:   middlewares.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute},
		RememberTTL: 24 * time.Hour,
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return testApp{server: server, db: db, product: product}
}

// client keeps cookies but does not follow redirects.
func (a testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (a testApp) post(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func (a testApp) login(t *testing.T, c *http.Client, loginID string) {
	t.Helper()
	resp := a.post(t, c, "/login", url.Values{"loginId": {loginID}, "password": {"password123"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestRouter_PublicPages(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp, body := app.get(t, c, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Enamel Kettle")

	resp, body = app.get(t, c, "/products?catCd=POT")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Enamel Kettle")
	assert.Contains(t, body, "₩18,000")

	resp, _ = app.get(t, c, "/products/search?largeCatCd=KITCHEN&sortCd=lowPrice")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.get(t, c, "/products/"+app.product.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Errors(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp, _ := app.get(t, c, "/products/search?sortCd=cheapest")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = app.get(t, c, "/products/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = app.get(t, c, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, app.client(t), "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestRouter_MemberPagesRequireLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	for _, path := range []string{"/cart", "/checkout", "/profiles", "/review/new?productId=x"} {
		resp, _ := app.get(t, c, path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"), path)
	}
}

func TestRouter_LoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, app.client(t), "/login", url.Values{"loginId": {"shopper1"}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?status=error"))
}

func TestRouter_CartFlow(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	app.login(t, c, "shopper1")

	_, body := app.get(t, c, "/cart")
	assert.Contains(t, body, "Your cart is empty.")

	resp, _ := app.get(t, c, "/checkout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.post(t, c, "/cart", url.Values{"productId": {app.product.ID}, "productCount": {"2"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/cart?status=success"))

	resp = app.post(t, c, "/cart", url.Values{"productId": {app.product.ID}, "productCount": {"6"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "status=error")

	resp, body = app.get(t, c, "/cart")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Enamel Kettle")
	assert.Contains(t, body, "₩36,000")

	resp, body = app.get(t, c, "/checkout")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "₩36,000")

	var item models.CartItem
	require.NoError(t, app.db.Where("product_id = ?", app.product.ID).First(&item).Error)

	resp = app.post(t, c, "/cart/"+item.ID, url.Values{"_method": {"DELETE"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/cart?status=success"))

	var remaining int64
	require.NoError(t, app.db.Model(&models.CartItem{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestRouter_ReviewAuthorityDenied(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	app.login(t, c, "shopper1")

	resp, body := app.get(t, c, "/review/authority?productId="+app.product.ID)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, false, payload["authorized"])
}

func TestRouter_RoleGuards(t *testing.T) {
	app := newTestApp(t)

	shopper := app.client(t)
	app.login(t, shopper, "shopper1")
	resp, _ := app.get(t, shopper, "/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, middlewares.AccessDeniedPath, resp.Header.Get("Location"))

	admin := app.client(t)
	app.login(t, admin, "manager1")
	resp, _ = app.get(t, admin, "/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := app.get(t, admin, "/admin/users")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "shopper1@example.com")

	resp, _ = app.get(t, admin, "/cart")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, middlewares.AccessDeniedPath, resp.Header.Get("Location"))
}

func TestRouter_SecondLoginSupersedesFirst(t *testing.T) {
	app := newTestApp(t)

	first := app.client(t)
	app.login(t, first, "shopper1")
	resp, _ := app.get(t, first, "/profiles")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	second := app.client(t)
	app.login(t, second, "shopper1")

	resp, _ = app.get(t, first, "/profiles")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, middlewares.DuplicatedLoginPath, resp.Header.Get("Location"))

	resp, _ = app.get(t, second, "/profiles")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	app.login(t, c, "shopper1")

	resp, _ := app.get(t, c, "/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = app.get(t, c, "/cart")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
}

func TestRouter_ReviewAuthorityAfterPurchase(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	app.login(t, c, "shopper1")
	ctx := context.Background()

	buyer, err := repositories.NewUserRepository(app.db).FindByLoginID(ctx, "shopper1")
	require.NoError(t, err)
	item := &models.CartItem{UserID: buyer.ID, ProductID: app.product.ID, ProductCount: 1, Active: true}
	require.NoError(t, repositories.NewCartItemRepository(app.db).Add(ctx, item))
	require.NoError(t, repositories.NewOrderRepository(app.db).CreateFromCart(ctx,
		&models.Order{UserID: buyer.ID, OrderCode: "ORD-1", OrderedAt: time.Now()}, []string{item.ID}))

	resp, body := app.get(t, c, "/review/authority?productId="+app.product.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"authorized":true`)

	resp, body = app.get(t, c, "/review/new?productId="+app.product.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Review: Enamel Kettle")
}

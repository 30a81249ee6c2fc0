package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/Rakhulsr/go-shoppingmall/app/models"
	"github.com/Rakhulsr/go-shoppingmall/app/services"
	"github.com/Rakhulsr/go-shoppingmall/app/utils/sessions"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockUserResolver struct {
	users    map[string]*models.User
	remember map[string]string
}

func newMockUserResolver(users ...*models.User) *mockUserResolver {
	m := &mockUserResolver{users: map[string]*models.User{}, remember: map[string]string{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserResolver) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, services.ErrNotFoundUser
	}
	return u, nil
}

func (m *mockUserResolver) ResolveRememberToken(ctx context.Context, token string) (*models.User, error) {
	userID, ok := m.remember[token]
	if !ok {
		return nil, nil
	}
	return m.users[userID], nil
}

type authEnv struct {
	store    *sessions.CookieSessionStore
	registry *sessions.MemorySessionRegistry
	users    *mockUserResolver
	handler  http.Handler
	seen     *models.User
}

func newAuthEnv(users ...*models.User) *authEnv {
	env := &authEnv{
		store:    sessions.NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32)),
		registry: sessions.NewMemorySessionRegistry(time.Hour),
		users:    newMockUserResolver(users...),
	}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.seen, _ = helpers.UserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
	env.handler = SessionAuthMiddleware(env.store, env.registry, env.users, zap.NewNop())(inner)
	return env
}

// login performs what the login handler does and returns the session cookies.
func (e *authEnv) login(t *testing.T, userID string) []*http.Cookie {
	t.Helper()
	token, err := e.registry.Register(context.Background(), userID)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, e.store.SetLogin(rec, httptest.NewRequest(http.MethodGet, "/", nil), userID, token))
	return rec.Result().Cookies()
}

func (e *authEnv) get(cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.seen = nil
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuth_Anonymous(t *testing.T) {
	env := newAuthEnv()
	rec := env.get()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, env.seen)
}

func TestSessionAuth_ResolvesUser(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleUser}
	env := newAuthEnv(user)

	rec := env.get(env.login(t, "u1")...)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.seen)
	assert.Equal(t, "u1", env.seen.ID)
}

func TestSessionAuth_NewerLoginSupersedesOlder(t *testing.T) {
	env := newAuthEnv(&models.User{ID: "u1", Role: models.RoleUser})

	older := env.login(t, "u1")
	newer := env.login(t, "u1")

	rec := env.get(older...)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, DuplicatedLoginPath, rec.Header().Get("Location"))
	assert.Nil(t, env.seen)

	rec = env.get(newer...)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.seen)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionAuth_UnregisteredSessionFallsBackToRememberMe(t *testing.T) {
	env := newAuthEnv(&models.User{ID: "u1", Role: models.RoleUser})
	env.users.remember["sel.ver"] = "u1"
	remember := &http.Cookie{Name: helpers.RememberMeCookieName, Value: "sel.ver"}
	cookies := append(env.login(t, "u1"), remember)

	// a restarted process starts with an empty registry
	env.registry = sessions.NewMemorySessionRegistry(time.Hour)
	env.handler = SessionAuthMiddleware(env.store, env.registry, env.users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.seen, _ = helpers.UserFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	rec := env.get(cookies...)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	require.NotNil(t, env.seen)
	assert.Equal(t, "u1", env.seen.ID)
	assert.Nil(t, findCookie(rec, helpers.RememberMeCookieName), "remember-me cookie stays untouched")

	// the restored session is registered again and works on its own
	session := findCookie(rec, "shoppingmall-session")
	require.NotNil(t, session)
	assert.GreaterOrEqual(t, session.MaxAge, 0)
	rec = env.get(session)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.seen)
}

func TestSessionAuth_UnregisteredSessionWithoutRememberMeIsAnonymous(t *testing.T) {
	env := newAuthEnv(&models.User{ID: "u1", Role: models.RoleUser})
	cookies := env.login(t, "u1")
	require.NoError(t, env.registry.Revoke(context.Background(), "u1", env.store.GetSessionToken(sessionRequest(cookies))))

	rec := env.get(cookies...)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Nil(t, env.seen)

	session := findCookie(rec, "shoppingmall-session")
	require.NotNil(t, session)
	assert.Less(t, session.MaxAge, 0)
}

func sessionRequest(cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestSessionAuth_SupersededSessionClearsRememberMe(t *testing.T) {
	env := newAuthEnv(&models.User{ID: "u1", Role: models.RoleUser})
	older := env.login(t, "u1")
	env.login(t, "u1")

	rec := env.get(append(older, &http.Cookie{Name: helpers.RememberMeCookieName, Value: "sel.ver"})...)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, DuplicatedLoginPath, rec.Header().Get("Location"))
	cleared := findCookie(rec, helpers.RememberMeCookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestSessionAuth_DeletedUserBecomesAnonymous(t *testing.T) {
	env := newAuthEnv()
	rec := env.get(env.login(t, "ghost")...)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, env.seen)
}

func TestSessionAuth_RememberMe(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleSocial}
	env := newAuthEnv(user)
	env.users.remember["sel.ver"] = "u1"

	rec := env.get(&http.Cookie{Name: helpers.RememberMeCookieName, Value: "sel.ver"})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.seen)
	assert.Equal(t, "u1", env.seen.ID)

	// the restored login issued a session cookie that now works on its own
	rec = env.get(rec.Result().Cookies()...)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.seen)
}

func TestSessionAuth_InvalidRememberCookieIsCleared(t *testing.T) {
	env := newAuthEnv()

	rec := env.get(&http.Cookie{Name: helpers.RememberMeCookieName, Value: "bad.token"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, env.seen)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == helpers.RememberMeCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestRequireRole(t *testing.T) {
	guard := RequireRole(zap.NewNop(), models.RoleUser, models.RoleSocial)
	ok := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(user *models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		if user != nil {
			req = req.WithContext(context.WithValue(req.Context(), helpers.ContextKeyUser, user))
		}
		rec := httptest.NewRecorder()
		ok.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), LoginPath)

	rec = serve(&models.User{ID: "a", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, AccessDeniedPath, rec.Header().Get("Location"))

	assert.Equal(t, http.StatusNoContent, serve(&models.User{ID: "u", Role: models.RoleUser}).Code)
	assert.Equal(t, http.StatusNoContent, serve(&models.User{ID: "s", Role: models.RoleSocial}).Code)
}

package sessions

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "shoppingmall-session"

	userIDSessionKey = "userID"
	tokenSessionKey  = "sessionToken"
	oauthStateKey    = "oauthState"
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	GetSessionToken(r *http.Request) string
	SetLogin(w http.ResponseWriter, r *http.Request, userID, token string) error

	SetOAuthState(w http.ResponseWriter, r *http.Request, state string) error
	PopOAuthState(w http.ResponseWriter, r *http.Request) (string, error)

	ClearSession(w http.ResponseWriter, r *http.Request) error

	// Secure reports whether cookies must only travel over HTTPS.
	Secure() bool
}

type CookieSessionStore struct {
	store  *sessions.CookieStore
	secure bool
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store, secure: secure}
}

// getSession never fails: an undecodable cookie yields a fresh session.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		session, _ = c.store.New(r, sessionCookieName)
	}
	return session
}

func (c *CookieSessionStore) stringValue(r *http.Request, key string) string {
	value, _ := c.getSession(r).Values[key].(string)
	return value
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	return c.stringValue(r, userIDSessionKey)
}

func (c *CookieSessionStore) GetSessionToken(r *http.Request) string {
	return c.stringValue(r, tokenSessionKey)
}

func (c *CookieSessionStore) SetLogin(w http.ResponseWriter, r *http.Request, userID, token string) error {
	session := c.getSession(r)
	session.Values[userIDSessionKey] = userID
	session.Values[tokenSessionKey] = token
	delete(session.Values, oauthStateKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) SetOAuthState(w http.ResponseWriter, r *http.Request, state string) error {
	session := c.getSession(r)
	session.Values[oauthStateKey] = state
	return session.Save(r, w)
}

// PopOAuthState returns the pending OAuth2 state and removes it so a
// callback can only be accepted once.
func (c *CookieSessionStore) PopOAuthState(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	state, _ := session.Values[oauthStateKey].(string)
	delete(session.Values, oauthStateKey)
	return state, session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func (c *CookieSessionStore) Secure() bool {
	return c.secure
}

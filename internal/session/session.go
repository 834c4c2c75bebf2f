// Package session issues and verifies the signed artifact that
// identifies a logged-in user between requests.  The artifact is an
// HS256 JWT binding a user id and an expiry; validity depends only on
// the signature and the clock, never on store state, so changing a
// password does not retroactively end sessions already issued.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session artifact.
const CookieName = "poll_session"

// ErrUnauthenticated is returned by Require when no valid session is
// present.  Callers deny or redirect; they never surface it raw.
var ErrUnauthenticated = errors.New("unauthenticated")

// Manager signs and verifies session artifacts.
type Manager struct {
	secret      []byte
	sessionTTL  time.Duration // plain login window
	rememberTTL time.Duration // "remember me" window
	secure      bool          // mark cookies Secure (anything but dev)
}

func NewManager(secret string, sessionTTL, rememberTTL time.Duration, secure bool) *Manager {
	return &Manager{
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		secure:      secure,
	}
}

// Create mints a signed artifact for the user.  remember=true extends
// the expiry to the long-lived window.
func (m *Manager) Create(userID string, remember bool) (string, time.Time, error) {
	ttl := m.sessionTTL
	if remember {
		ttl = m.rememberTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Read verifies an artifact and returns the user id it carries.  A
// missing, malformed, tampered or expired artifact all come back as
// ("", false); an invalid session and no session are the same thing.
func (m *Manager) Read(artifact string) (string, bool) {
	if artifact == "" {
		return "", false
	}
	tok, err := jwt.Parse(artifact, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

// Require is Read for protected operations: it turns "no identity" into
// ErrUnauthenticated so callers can deny uniformly.
func (m *Manager) Require(artifact string) (string, error) {
	userID, ok := m.Read(artifact)
	if !ok {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

// Cookie wraps an artifact in the session cookie.  Session-scoped
// logins (remember=false) get no Max-Age so the cookie dies with the
// browser session even though the artifact itself lives to exp.
func (m *Manager) Cookie(artifact string, exp time.Time, remember bool) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    artifact,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		c.Expires = exp
	}
	return c
}

// ClearCookie returns the cookie that destroys a session client-side.
// The artifact itself stays valid until exp; destruction only removes
// it from the browser.
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

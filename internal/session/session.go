package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName is the name of the session cookie sent to clients.
	CookieName = "session_token"

	// DefaultTTL is the idle lifetime of a session when none is configured.
	DefaultTTL = 24 * time.Hour
)

// Payload is the server-held state attached to a session.
type Payload struct {
	Username string
}

type entry struct {
	payload   Payload
	expiresAt time.Time
}

// Manager issues opaque session tokens, keeps the associated payload
// server-side and destroys sessions on logout. The cookie value is
// "<token>.<hmac>" where the HMAC is keyed by the configured secret, so a
// tampered cookie is rejected before any store lookup.
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates a session manager with the given signing secret and
// idle TTL. A non-positive ttl falls back to DefaultTTL.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Create starts a new authenticated session for username and sets the
// session cookie on the response.
func (m *Manager) Create(w http.ResponseWriter, username string) string {
	token := uuid.NewString()

	m.mu.Lock()
	m.sessions[token] = entry{
		payload:   Payload{Username: username},
		expiresAt: m.now().Add(m.ttl),
	}
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.sign(token),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return token
}

// Get returns the payload for the request's session cookie.
// A missing cookie, a bad signature, an unknown token or an expired entry all
// report (nil, false); expired entries are dropped on the way out.
func (m *Manager) Get(r *http.Request) (*Payload, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}

	token, ok := m.verify(cookie.Value)
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.sessions, token)
		return nil, false
	}

	payload := e.payload
	return &payload, true
}

// Destroy invalidates the request's session and clears the cookie.
// Destroying a request with no valid session is a no-op beyond the cookie
// reset.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if token, ok := m.verify(cookie.Value); ok {
			m.mu.Lock()
			delete(m.sessions, token)
			m.mu.Unlock()
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Len reports the number of live sessions, expired entries included until
// they are touched.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sign produces the cookie value "<token>.<base64url hmac>".
func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return token + "." + sig
}

// verify checks the cookie value's signature and returns the bare token.
func (m *Manager) verify(value string) (string, bool) {
	token, sig, found := strings.Cut(value, ".")
	if !found || token == "" {
		return "", false
	}

	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(sig), []byte(want)) != 1 {
		return "", false
	}
	return token, true
}

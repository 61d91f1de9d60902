package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// CookieName is the admin session cookie.
const CookieName = "wows_session"

// Options configures a Manager.
type Options struct {
	Secret string
	TTL    time.Duration
	Secure bool // set the cookie's Secure flag (release mode)
}

// Manager issues and resolves admin session cookies.
//
// The cookie is an HS256 JWT whose jti is the session id and whose sub is
// the username. The signature keeps forged ids from ever reaching the store;
// the store decides whether the session is still live.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager validates options and builds a Manager.
func NewManager(store Store, opts Options) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", opts.TTL)
	}
	return &Manager{
		store:  store,
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		secure: opts.Secure,
		now:    time.Now,
	}, nil
}

// Start creates a session for username and sets the cookie.
func (m *Manager) Start(c *gin.Context, username string) (*models.AdminIdentity, error) {
	id := uuid.NewString()
	if err := m.store.Save(c.Request.Context(), id, username, m.ttl); err != nil {
		return nil, err
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}

	m.setCookie(c, token, int(m.ttl.Seconds()))
	return &models.AdminIdentity{Username: username, SessionID: id}, nil
}

// Resolve returns the identity behind the request's cookie. Any cookie
// problem, and any id the store does not know, is ErrNoSession; other
// errors come from the store.
func (m *Manager) Resolve(c *gin.Context) (*models.AdminIdentity, error) {
	claims, err := m.claims(c)
	if err != nil {
		return nil, err
	}

	username, err := m.store.Lookup(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, err
	}
	if username != claims.Subject {
		return nil, ErrNoSession
	}
	return &models.AdminIdentity{Username: username, SessionID: claims.ID}, nil
}

// End deletes the session (if any) and clears the cookie.
func (m *Manager) End(c *gin.Context) error {
	defer m.setCookie(c, "", -1)

	claims, err := m.claims(c)
	if err != nil {
		return nil
	}
	return m.store.Delete(c.Request.Context(), claims.ID)
}

func (m *Manager) claims(c *gin.Context) (*jwt.RegisteredClaims, error) {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil, ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || claims.ID == "" {
		return nil, ErrNoSession
	}
	return claims, nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", m.secure, true)
}

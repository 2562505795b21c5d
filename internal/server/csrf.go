// internal/server/csrf.go
package server

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"
)

var (
	ErrTokenMissing = errors.New("CSRF token missing")
	ErrTokenInvalid = errors.New("CSRF token invalid")
)

// CSRFConfig holds configuration for CSRF protection
type CSRFConfig struct {
	Cookie    string
	Secure    bool
	Expiry    time.Duration
	FieldName string
}

// DefaultCSRFConfig returns the default CSRF configuration
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		Cookie:    "csrf_token",
		Secure:    true, // overridden by server config
		Expiry:    24 * time.Hour,
		FieldName: "csrf_token",
	}
}

// CSRF manages CSRF token generation and validation
type CSRF struct {
	config CSRFConfig
	tokens sync.Map
}

// NewCSRF creates a new CSRF instance
func NewCSRF(config CSRFConfig) *CSRF {
	c := &CSRF{config: config}
	go c.startCleanupLoop()
	return c
}

func (c *CSRF) generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// getOrCreateToken gets an existing token or creates a new one
func (c *CSRF) getOrCreateToken(w http.ResponseWriter, r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.config.Cookie)
	if err == nil && cookie.Value != "" {
		if _, ok := c.tokens.Load(cookie.Value); ok {
			return cookie.Value, nil
		}
	}

	token, err := c.generateToken()
	if err != nil {
		return "", err
	}
	c.tokens.Store(token, time.Now().Add(c.config.Expiry))

	http.SetCookie(w, &http.Cookie{
		Name:     c.config.Cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.config.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(c.config.Expiry.Seconds()),
	})

	return token, nil
}

// Token gets or creates a CSRF token and returns it
func (c *CSRF) Token(w http.ResponseWriter, r *http.Request) string {
	token, _ := c.getOrCreateToken(w, r)
	return token
}

// Validate checks the form token against the cookie and replies 403 on
// failure. Handlers for unsafe methods call this first.
func (c *CSRF) Validate(w http.ResponseWriter, r *http.Request) bool {
	if err := c.validateRequest(r); err != nil {
		http.Error(w, "CSRF validation failed", http.StatusForbidden)
		return false
	}
	return true
}

func (c *CSRF) validateRequest(r *http.Request) error {
	var token string
	if err := r.ParseForm(); err == nil {
		token = r.FormValue(c.config.FieldName)
	}
	if token == "" {
		return ErrTokenMissing
	}

	cookie, err := r.Cookie(c.config.Cookie)
	if err != nil {
		return ErrTokenMissing
	}
	if token != cookie.Value {
		return ErrTokenInvalid
	}

	expiry, ok := c.tokens.Load(token)
	if !ok {
		return ErrTokenInvalid
	}
	if expiry.(time.Time).Before(time.Now()) {
		c.tokens.Delete(token)
		return ErrTokenInvalid
	}
	return nil
}

// cleanup removes expired tokens
func (c *CSRF) cleanup() {
	now := time.Now()
	c.tokens.Range(func(key, value any) bool {
		if value.(time.Time).Before(now) {
			c.tokens.Delete(key)
		}
		return true
	})
}

// startCleanupLoop prunes expired tokens so anonymous page views do
// not grow the store without bound.
func (c *CSRF) startCleanupLoop() {
	ticker := time.NewTicker(6 * time.Hour)
	for range ticker.C {
		c.cleanup()
	}
}

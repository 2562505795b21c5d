package server

import (
	"net/http/httptest"
	"testing"
	"time"
)

func countTokens(c *CSRF) int {
	count := 0
	c.tokens.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func TestCSRFTokenIssue(t *testing.T) {
	c := NewCSRF(DefaultCSRFConfig())

	rec := httptest.NewRecorder()
	token := c.Token(rec, httptest.NewRequest("GET", "/", nil))
	if token == "" {
		t.Fatal("Expected a token")
	}

	cookieSet := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "csrf_token" && cookie.Value == token {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("Token cookie not set")
	}

	// A returning visitor with the cookie keeps the same token.
	req := httptest.NewRequest("GET", "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	if again := c.Token(httptest.NewRecorder(), req); again != token {
		t.Errorf("Expected token reuse, got %q then %q", token, again)
	}
}

func TestCSRFCleanupPrunesExpiredTokens(t *testing.T) {
	c := NewCSRF(DefaultCSRFConfig())

	// Cookie-less visitors each mint a fresh token.
	for i := 0; i < 100; i++ {
		c.Token(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	}
	if got := countTokens(c); got != 100 {
		t.Fatalf("Expected 100 stored tokens, got %d", got)
	}

	// Age every token past its expiry; the cleanup pass must drop them all.
	expired := time.Now().Add(-time.Minute)
	c.tokens.Range(func(key, _ any) bool {
		c.tokens.Store(key, expired)
		return true
	})
	c.cleanup()

	if got := countTokens(c); got != 0 {
		t.Errorf("Expected empty token store after cleanup, got %d entries", got)
	}
}

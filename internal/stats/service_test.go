package stats

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testService(t *testing.T, username string, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewService(log.New(io.Discard, "", 0), username)
	s.baseURL = server.URL
	return s
}

func TestGet(t *testing.T) {
	var requests int32
	s := testService(t, "someone", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Path != "/users/someone" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"public_repos":12,"followers":34,"following":5}`))
	})

	profile := s.Get(context.Background())
	if profile == nil {
		t.Fatal("Expected a profile")
	}
	if profile.PublicRepos != 12 || profile.Followers != 34 || profile.Following != 5 {
		t.Errorf("Unexpected profile %+v", profile)
	}

	// Cached within the TTL.
	s.Get(context.Background())
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Expected 1 API request, got %d", got)
	}
}

func TestGetNoUsername(t *testing.T) {
	s := testService(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected without a username")
	})
	if profile := s.Get(context.Background()); profile != nil {
		t.Errorf("Expected nil profile, got %+v", profile)
	}
}

func TestGetFailureCountsAgainstTTL(t *testing.T) {
	var requests int32
	s := testService(t, "someone", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Error(w, "down", http.StatusBadGateway)
	})

	// An outage must not turn every render into an upstream request.
	for i := 0; i < 5; i++ {
		if profile := s.Get(context.Background()); profile != nil {
			t.Fatalf("Render %d: expected hidden stats, got %+v", i, profile)
		}
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("Expected 1 upstream request across renders during outage, got %d", got)
	}
}

func TestGetAPIFailure(t *testing.T) {
	s := testService(t, "someone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	})
	if profile := s.Get(context.Background()); profile != nil {
		t.Errorf("Expected hidden stats on API failure, got %+v", profile)
	}
}

func TestGetServesStaleOnFailure(t *testing.T) {
	var fail atomic.Bool
	s := testService(t, "someone", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"public_repos":7}`))
	})

	if profile := s.Get(context.Background()); profile == nil || profile.PublicRepos != 7 {
		t.Fatalf("Expected initial profile, got %+v", profile)
	}

	// Expire the cache, then break the API.
	s.fetchedAt = s.fetchedAt.Add(-2 * s.ttl)
	fail.Store(true)

	if profile := s.Get(context.Background()); profile == nil || profile.PublicRepos != 7 {
		t.Errorf("Expected stale profile over a hidden block, got %+v", profile)
	}
}

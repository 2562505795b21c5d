// internal/stats/service.go
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Profile holds the public counters shown in the stats block.
type Profile struct {
	PublicRepos int `json:"public_repos"`
	Followers   int `json:"followers"`
	Following   int `json:"following"`
}

// Service fetches GitHub profile statistics, best effort. A failed
// fetch hides the stats block; it is never surfaced to the visitor.
type Service struct {
	client   *http.Client
	logger   *log.Logger
	username string
	baseURL  string

	mu        sync.Mutex
	cached    *Profile
	fetchedAt time.Time
	ttl       time.Duration
}

func NewService(logger *log.Logger, username string) *Service {
	return &Service{
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
		username: username,
		baseURL:  "https://api.github.com",
		ttl:      10 * time.Minute,
	}
}

// Get returns the profile counters, or nil when the stats block should
// be hidden (no user configured, or the API is unreachable). Results
// are cached briefly so page renders do not hammer the API; a failed
// attempt counts against the TTL too, so an outage is retried once per
// interval instead of once per render.
func (s *Service) Get(ctx context.Context) *Profile {
	if s.username == "" {
		return nil
	}

	s.mu.Lock()
	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.ttl {
		cached := s.cached
		s.mu.Unlock()
		return cached
	}
	// Claim this interval before fetching so concurrent renders do not
	// pile up behind a slow or hung API call.
	s.fetchedAt = time.Now()
	stale := s.cached
	s.mu.Unlock()

	profile, err := s.fetch(ctx)
	if err != nil {
		s.logger.Printf("Error fetching GitHub stats for %s: %v", s.username, err)
		// Keep serving a stale profile over hiding the block
		return stale
	}

	s.mu.Lock()
	s.cached = profile
	s.mu.Unlock()
	return profile
}

func (s *Service) fetch(ctx context.Context) (*Profile, error) {
	url := fmt.Sprintf("%s/users/%s", s.baseURL, s.username)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&profile); err != nil {
		return nil, fmt.Errorf("error decoding profile: %w", err)
	}
	return &profile, nil
}

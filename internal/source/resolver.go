// internal/source/resolver.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// maxFeedBytes caps how much of a feed response we read (5MB).
const maxFeedBytes = 5 << 20

// origin is a single candidate in a feed's resolution chain.
type origin struct {
	name string
	load func(ctx context.Context) ([]byte, error)
}

// Resolver resolves named feeds through an ordered origin chain:
// remote endpoint, then local file, then an empty default. The first
// origin that both loads and decodes wins and is memoized for the
// lifetime of the process; failed origins are logged and skipped.
// There is no invalidation path: even the empty default sticks.
type Resolver struct {
	logger  *log.Logger
	client  *http.Client
	remote  string
	dataDir string
	cache   sync.Map
	group   singleflight.Group
}

func NewResolver(logger *log.Logger, remoteBaseURL, dataDir string) *Resolver {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
	}
	return &Resolver{
		logger:  logger,
		client:  &http.Client{Timeout: 30 * time.Second, Transport: transport},
		remote:  remoteBaseURL,
		dataDir: dataDir,
	}
}

// Content resolves the main feed. It never fails: exhausting every
// origin yields an empty document.
func (r *Resolver) Content(ctx context.Context) Content {
	v := r.resolve(ctx, FeedContent, "data.json", func(data []byte) (any, error) {
		var doc Content
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}, Content{})
	return v.(Content)
}

// Pricing resolves the pricing feed, a bare top-level array of plans.
func (r *Resolver) Pricing(ctx context.Context) []PricingPlan {
	v := r.resolve(ctx, FeedPricing, "pricing.json", func(data []byte) (any, error) {
		var plans []PricingPlan
		if err := json.Unmarshal(data, &plans); err != nil {
			return nil, err
		}
		return plans, nil
	}, []PricingPlan{})
	return v.([]PricingPlan)
}

func (r *Resolver) resolve(ctx context.Context, feed, file string, decode func([]byte) (any, error), fallback any) any {
	if v, ok := r.cache.Load(feed); ok {
		return v
	}

	// Concurrent callers for the same feed share one chain.
	v, _, _ := r.group.Do(feed, func() (any, error) {
		if v, ok := r.cache.Load(feed); ok {
			return v, nil
		}

		// The outcome is memoized for every later visitor, so the chain
		// must not be cancelled with the first caller's request.
		ctx := context.Background()

		for _, o := range r.origins(file) {
			data, err := o.load(ctx)
			if err != nil {
				r.logger.Printf("Feed %s: %s origin failed: %v", feed, o.name, err)
				continue
			}
			doc, err := decode(data)
			if err != nil {
				r.logger.Printf("Feed %s: %s origin returned an unparseable document: %v", feed, o.name, err)
				continue
			}
			r.cache.Store(feed, doc)
			return doc, nil
		}

		r.logger.Printf("Feed %s: all origins exhausted, serving empty default", feed)
		r.cache.Store(feed, fallback)
		return fallback, nil
	})
	return v
}

// origins returns the candidate chain for a feed file, in priority
// order. The local file is never attempted before the remote fails.
func (r *Resolver) origins(file string) []origin {
	var chain []origin
	if r.remote != "" {
		url := r.remote + "/" + file
		chain = append(chain, origin{
			name: "remote",
			load: func(ctx context.Context) ([]byte, error) {
				return r.fetch(ctx, url)
			},
		})
	}
	chain = append(chain, origin{
		name: "local",
		load: func(ctx context.Context) ([]byte, error) {
			return os.ReadFile(filepath.Join(r.dataDir, file))
		},
	})
	return chain
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Portfolio/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading feed body: %w", err)
	}
	return data, nil
}

// Package fetch downloads catalog documents over HTTP with retries and a
// local file cache.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 30 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	MaxRetries int

	// NoCache disables reading and writing the cache.
	NoCache bool

	// Cache overrides the XDG file cache.
	Cache Cacher

	UserAgent string
}

// Client fetches documents through a retrying HTTP client.
type Client struct {
	http      *pester.Client
	cache     Cacher
	userAgent string
}

// New creates a Client. Zero options use DefaultTimeout, the pester
// default retry count and the XDG cache.
func New(opts Options) *Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.RetryOnHTTP429 = true
	client.Timeout = DefaultTimeout
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	if opts.MaxRetries > 0 {
		client.MaxRetries = opts.MaxRetries
	}

	c := &Client{
		http:      client,
		userAgent: opts.UserAgent,
	}
	if c.userAgent == "" {
		c.userAgent = AppName
	}
	switch {
	case opts.NoCache:
	case opts.Cache != nil:
		c.cache = opts.Cache
	default:
		c.cache = &FileCacher{}
	}
	return c
}

// Get returns the body at url, from the cache when present. Only 2xx
// bodies are cached.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		b, err := c.cache.Get(url)
		switch {
		case err == nil:
			slog.Debug("cache hit", "url", url)
			return b, nil
		case err != ErrCacheMiss:
			slog.Warn("cache read failed", "url", url, "err", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	slog.Debug("fetching", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(url, b); err != nil {
			slog.Warn("cache write failed", "url", url, "err", err)
		}
	}
	return b, nil
}

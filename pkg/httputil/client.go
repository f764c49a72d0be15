package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/cache"
	apperrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// Defaults for remote fetches. NewClient starts from these and applies any
// Options on top.
const (
	// DefaultTimeout bounds a single HTTP request including the body read.
	DefaultTimeout = 10 * time.Second

	// DefaultTTL controls how long fetched documents stay cached.
	DefaultTTL = cache.TTLHTTP

	// DefaultMaxBodySize caps the size of a remote document (10 MiB).
	DefaultMaxBodySize int64 = 10 << 20

	// keyNamespace prefixes every cache key written by this package.
	keyNamespace = "fetch:"
)

// Client fetches remote manifest documents over HTTP.
//
// Responses are cached by URL through a [cache.Cache] backend, and transient
// failures (network errors, 5xx responses, rate limits) are retried with
// exponential backoff. The raw bytes are returned unmodified; parsing is the
// caller's concern.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	maxBody int64
	agent   string
}

// Option configures a [Client].
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithTTL sets how long fetched documents stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.ttl = ttl
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.maxBody = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.agent = agent
	}
}

// WithKeyer overrides the cache key strategy.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) {
		c.keyer = k
	}
}

// NewClient creates an HTTP client backed by the given cache.
//
// Parameters:
//   - backend: Cache backend for response caching (nil disables caching)
//   - opts: Overrides for timeout, TTL, body size limit, User-Agent, and keys
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, opts ...Option) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		cache:   backend,
		keyer:   cache.NewDefaultKeyer(),
		ttl:     DefaultTTL,
		maxBody: DefaultMaxBodySize,
		agent:   "mosaic/" + buildinfo.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches the document at rawURL, consulting the cache first.
//
// If refresh is true, the cache is bypassed and a fresh request is made.
// If refresh is false, cached bytes are returned when available and not
// expired. A successful fetch always updates the cache.
//
// Returns:
//   - The raw response body on success
//   - [cache.ErrNotFound] for 404 responses
//   - [cache.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - A validation error when rawURL is not an http(s) URL
//
// This method is safe for concurrent use.
func (c *Client) Get(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := apperrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	key := c.keyer.HTTPKey(keyNamespace, rawURL)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var ferr error
		data, ferr = c.fetch(ctx, rawURL)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(data))
	}
	return data, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.agent)

	host := req.URL.Host
	path := req.URL.Path
	if path == "" {
		path = "/"
	}

	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", err, rawURL)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	if int64(len(data)) > c.maxBody {
		return nil, apperrors.New(apperrors.ErrCodeUnsupported, "response from %s exceeds %d bytes", host, c.maxBody)
	}
	return data, nil
}

// checkStatus maps a response status to an error. Transient statuses (429 and
// 5xx) come back wrapped as retryable so [cache.RetryWithBackoff] picks them
// up.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return cache.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return cache.Retryable(&apperrors.RateLimitedError{RetryAfter: retryAfterSeconds(resp)})
	case resp.StatusCode >= 500:
		return cache.Retryable(fmt.Errorf("%w: HTTP %d", cache.ErrNetwork, resp.StatusCode))
	default:
		return fmt.Errorf("%w: HTTP %d", cache.ErrNetwork, resp.StatusCode)
	}
}

// retryAfterSeconds parses the Retry-After header as a delay in seconds.
// HTTP-date values and missing headers yield zero.
func retryAfterSeconds(resp *http.Response) int {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return secs
		}
	}
	return 0
}

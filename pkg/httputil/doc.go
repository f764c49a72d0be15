// Package httputil fetches remote manifest documents over HTTP.
//
// # Overview
//
// [Client] is a thin wrapper around net/http used whenever a layout source
// is a URL rather than a local file:
//
//   - Responses are cached by URL through a [cache.Cache] backend
//   - Transient failures are retried with exponential backoff
//
// # Caching
//
// Every successful fetch is stored under a key derived from the URL, so
// repeated layouts of the same remote manifest skip the network entirely:
//
//	backend, _ := cache.NewFileCache(dir)
//	client := httputil.NewClient(backend)
//	data, err := client.Get(ctx, "https://example.com/weights.toml", false)
//
// Passing refresh=true bypasses the cache and forces a fresh request. The
// cache is still updated with the new response.
//
// # Retry
//
// Network errors, 5xx responses, and 429 rate limits are wrapped as
// retryable and handed to [cache.RetryWithBackoff], which retries up to
// three times with exponential backoff. 404 responses map to
// [cache.ErrNotFound] and fail immediately.
//
// # Configuration
//
// Defaults are suitable for most use cases:
//
//   - Request timeout: 10 seconds
//   - Cache TTL: 24 hours
//   - Max response size: 10 MiB
//
// Use Options ([WithTimeout], [WithTTL], [WithMaxBodySize], [WithUserAgent])
// to override them.
package httputil

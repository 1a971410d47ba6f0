// Package catalog provides the Art Institute of Chicago artworks API client
// with optional response caching, rate limit tracking and error
// classification.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/artic-table/pkg/cache"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for catalog client operations.
var (
	articRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_requests_total",
		Help: "Total catalog requests by endpoint and status",
	}, []string{"endpoint", "status"})

	articRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artic_request_duration_seconds",
		Help:    "Catalog request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	articErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_errors_total",
		Help: "Total catalog errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the public artworks API root.
	DefaultBaseURL = "https://api.artic.edu/api/v1"

	// DefaultPageSize matches the page length the API uses when no limit is sent.
	DefaultPageSize = 12

	// MaxPageSize is the largest limit the API accepts.
	MaxPageSize = 100

	artworksEndpoint = "/artworks"
)

// Client is the catalog API client.
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	rateLimiter *ratelimit.Tracker
	cache       *cache.Store
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://api.artic.edu/api/v1
	BaseURL string

	// UserAgent identifies the application. The API asks for it in the
	// AIC-User-Agent header; it is sent as User-Agent as well.
	// Format: "AppName (contact@example.com)"
	UserAgent string

	// PageSize is the number of records requested per page.
	PageSize int

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration

	// Redis enables the response cache and shared rate limit state.
	// Optional: nil disables both.
	Redis *redis.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		PageSize:  DefaultPageSize,
		Timeout:   30 * time.Second,
	}
}

// New creates a new catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageSize > MaxPageSize {
		return nil, fmt.Errorf("page_size must be <= %d (got %d)", MaxPageSize, cfg.PageSize)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	// Initialize logger
	logger := log.With().Str("component", "artic-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		config:  cfg,
		logger:  logger,
	}

	if cfg.Redis != nil {
		c.rateLimiter = ratelimit.NewTracker(cfg.Redis, logger)
		c.cache = cache.NewStore(cfg.Redis)
	}

	return c, nil
}

// Do sends req with rate limiting and the identification headers the
// catalog asks for. Transport failures and statuses >= 400 are returned
// as *NetworkError; 304 is returned to the caller like any success.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		articRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if c.rateLimiter != nil {
		allowed, err := c.rateLimiter.ShouldAllowRequest(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Rate limit check failed, allowing request")
		} else if !allowed {
			c.logger.Warn().
				Str("endpoint", endpoint).
				Msg("Request blocked by rate limiter")
			articRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
			return nil, ErrRequestBlocked
		}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("AIC-User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", req.URL.RawQuery).
		Msg("Executing catalog request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := c.classifyError(nil, err)
		articErrorsTotal.WithLabelValues(string(errClass)).Inc()
		articRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &NetworkError{
			ErrorClass: errClass,
			Message:    "request failed",
			Err:        err,
		}
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
		}
	}

	articRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		errClass := c.classifyError(resp, nil)
		articErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Catalog request error")

		// Drain a bounded amount of the body so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		return nil, &NetworkError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	return resp, nil
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		c.logger.Debug().Str("class", string(ErrorClassNetwork)).Msg("Error classified")
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Debug().Str("class", string(ErrorClassRateLimit)).Msg("Error classified")
		return ErrorClassRateLimit
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.logger.Debug().Str("class", string(ErrorClassClient)).Msg("Error classified")
		return ErrorClassClient
	case resp.StatusCode >= 500:
		c.logger.Debug().Str("class", string(ErrorClassServer)).Msg("Error classified")
		return ErrorClassServer
	default:
		return ""
	}
}

// pageURL builds the listing URL for page.
func (c *Client) pageURL(page int) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(c.config.PageSize))
	query.Set("fields", strings.Join(ArtworkFields, ","))

	u := *c.baseURL
	u.Path = c.baseURL.Path + artworksEndpoint
	u.RawQuery = query.Encode()
	return u.String()
}

// pageKey is the cache key for page under the client's page size.
func (c *Client) pageKey(page int) cache.PageKey {
	return cache.PageKey{Page: page, Limit: c.config.PageSize, Fields: ArtworkFields}
}

// FetchPage fetches one page of artworks. Pages are numbered from 1.
//
// With Redis configured, a previously fetched page is revalidated with a
// conditional request and replayed from the cache on 304. Only pages
// that decode are cached.
func (c *Client) FetchPage(ctx context.Context, page int) (*PageResult, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	key := c.pageKey(page)
	cached := c.lookup(ctx, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(page), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if cached.Revalidate(req) {
		c.logger.Debug().
			Int("page", page).
			Str("etag", cached.ETag).
			Dur("age", cached.Age()).
			Msg("Revalidating cached page")
	}

	resp, err := c.Do(req)
	if err != nil {
		var ne *NetworkError
		if errors.As(err, &ne) {
			ne.Page = page
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return c.replay(ctx, page, key, cached, resp.Header)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		articErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &NetworkError{
			Page:       page,
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	result, err := decodePage(body)
	if err != nil {
		c.logger.Warn().Err(err).Int("page", page).Msg("Failed to decode catalog page")
		return nil, &DecodeError{Page: page, Err: err}
	}

	if c.cache != nil && resp.StatusCode == http.StatusOK {
		entry := cache.NewPageEntry(body, resp.Header, cache.PageSummary{
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
			Records:    result.Len(),
		})
		c.save(ctx, key, entry)
	}

	c.logger.Debug().
		Int("page", page).
		Int("records", result.Len()).
		Int("total_pages", result.Pagination.TotalPages).
		Msg("Fetched catalog page")

	return result, nil
}

// replay answers a 304 from the cached entry and extends it.
func (c *Client) replay(ctx context.Context, page int, key cache.PageKey, cached *cache.PageEntry, header http.Header) (*PageResult, error) {
	if cached == nil {
		articErrorsTotal.WithLabelValues(string(ErrorClassServer)).Inc()
		return nil, &NetworkError{
			Page:       page,
			StatusCode: http.StatusNotModified,
			ErrorClass: ErrorClassServer,
			Message:    "not modified without a cached page",
		}
	}

	result, err := decodePage(cached.Body)
	if err != nil {
		c.logger.Warn().Err(err).Int("page", page).Msg("Cached page no longer decodes, dropping it")
		if ferr := c.cache.Forget(ctx, key); ferr != nil {
			c.logger.Warn().Err(ferr).Int("page", page).Msg("Failed to drop cached page")
		}
		return nil, &DecodeError{Page: page, Err: err}
	}

	cached.Refresh(header)
	c.save(ctx, key, cached)

	c.logger.Debug().
		Int("page", page).
		Int("records", cached.Records).
		Int("total_pages", cached.TotalPages).
		Dur("age", cached.Age()).
		Msg("304 Not Modified - replaying cached page")

	return result, nil
}

// lookup returns the cached entry for key, nil on a miss, on a Redis
// error or when caching is disabled.
func (c *Client) lookup(ctx context.Context, key cache.PageKey) *cache.PageEntry {
	if c.cache == nil {
		return nil
	}
	entry, err := c.cache.Lookup(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Int("page", key.Page).Msg("Cache lookup failed")
		}
		return nil
	}
	return entry
}

func (c *Client) save(ctx context.Context, key cache.PageKey, entry *cache.PageEntry) {
	if err := c.cache.Save(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Int("page", key.Page).Msg("Failed to cache page")
		return
	}
	c.logger.Debug().
		Int("page", key.Page).
		Dur("ttl", entry.TTL()).
		Msg("Cached page")
}

// PageSize returns the configured number of records per page.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// Ping checks that the optional Redis backend is reachable.
// It returns nil when the client runs without Redis.
func (c *Client) Ping(ctx context.Context) error {
	if c.config.Redis == nil {
		return nil
	}
	return c.config.Redis.Ping(ctx).Err()
}

// Close releases idle HTTP connections. The Redis client is owned by the caller.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Cache returns the page store, nil when caching is disabled.
func (c *Client) Cache() *cache.Store {
	return c.cache
}

// Package httpclient is the outbound HTTP client used by every adapter: retries
// with backoff, per-site rate limiting, compressed bodies, a response size cap
// and conditional GETs backed by an in-memory validator cache.
package httpclient

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/publicsuffix"

	"oppsync/internal/core/ports"
	"oppsync/internal/platform/cache"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/rate"
)

// Client performs GETs and link probes.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Group
	validators *cache.LRU[cachedResponse]
	logger     logx.Logger
	config     Config
}

// Config holds the client settings.
type Config struct {
	// Timeout bounds a single attempt.
	Timeout time.Duration

	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration

	UserAgent string

	// RatePerHost requests per second per registrable domain (0 = unlimited).
	RatePerHost float64
	Burst       int

	// MaxBodyBytes caps decoded response bodies.
	MaxBodyBytes int64

	// CacheTTL keeps ETag/Last-Modified validators (0 disables conditional GETs).
	CacheTTL  time.Duration
	CacheSize int
}

// cachedResponse is what a 304 replays.
type cachedResponse struct {
	etag         string
	lastModified string
	contentType  string
	body         []byte
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      2,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 30 * time.Second,
		UserAgent:       "oppsync/1.0 (+https://github.com/oppsync/oppsync)",
		RatePerHost:     2,
		Burst:           4,
		MaxBodyBytes:    5 << 20,
		CacheTTL:        6 * time.Hour,
		CacheSize:       512,
	}
}

// New creates a client, filling zero values with defaults.
func New(config Config, logger logx.Logger) *Client {
	def := DefaultConfig()
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = def.RetryBackoff
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = def.MaxRetryBackoff
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = def.MaxBodyBytes
	}
	if config.CacheSize <= 0 {
		config.CacheSize = def.CacheSize
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewGroup(config.RatePerHost, config.Burst),
		validators: cache.New[cachedResponse](config.CacheSize),
		logger:     logger.With("component", "httpclient"),
		config:     config,
	}
}

// Request performs one HTTP call with rate limiting and retries. The caller
// owns the returned body.
func (c *Client) Request(ctx context.Context, method, rawURL string, headers map[string]string) (*http.Response, error) {
	key := SiteKey(rawURL)
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx, key); err != nil {
			return nil, errors.Wrap(err, "rate limit wait failed")
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "build request %s %s: %v", method, rawURL, err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept-Encoding", "br, gzip")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		elapsed := time.Since(start)

		if err != nil {
			lastErr = classify(err)
			c.logger.Debug("http request failed",
				"method", method, "url", rawURL, "attempt", attempt+1,
				"error", err.Error(), "duration_ms", elapsed.Milliseconds())
			if attempt >= c.config.MaxRetries || !errors.IsRetryable(lastErr) {
				break
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Wrap(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("http response",
			"method", method, "url", rawURL, "status", resp.StatusCode,
			"duration_ms", elapsed.Milliseconds())

		if !isRetryableStatus(resp.StatusCode) || attempt >= c.config.MaxRetries {
			return resp, nil
		}

		drain(resp)
		lastErr = errors.NewStatusError(rawURL, resp.StatusCode)
		c.logger.Debug("retryable status", "url", rawURL, "status", resp.StatusCode, "attempt", attempt+1)
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "%s %s failed after %d attempts", method, rawURL, c.config.MaxRetries+1)
}

// Get fetches rawURL and returns the decoded body. Non-2xx answers are
// errors; a 304 replays the cached body.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*ports.Response, error) {
	hdrs := make(map[string]string, len(headers)+2)
	for k, v := range headers {
		hdrs[k] = v
	}

	cacheKey := rawURL + "\x00" + headerFingerprint(headers)
	cached, haveCached := c.cached(cacheKey)
	if haveCached {
		if cached.etag != "" {
			hdrs["If-None-Match"] = cached.etag
		}
		if cached.lastModified != "" {
			hdrs["If-Modified-Since"] = cached.lastModified
		}
	}

	resp, err := c.Request(ctx, http.MethodGet, rawURL, hdrs)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotModified && haveCached {
		drain(resp)
		c.logger.Debug("not modified, replaying cached body", "url", rawURL)
		return &ports.Response{
			URL:         rawURL,
			StatusCode:  http.StatusOK,
			ContentType: cached.contentType,
			Body:        cached.body,
			FromCache:   true,
		}, nil
	}

	if err := CheckStatus(resp); err != nil {
		drain(resp)
		if haveCached {
			c.validators.Delete(cacheKey)
		}
		return nil, err
	}

	body, err := c.ReadBody(resp)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", rawURL)
	}

	out := &ports.Response{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}

	if c.config.CacheTTL > 0 {
		etag, lm := resp.Header.Get("ETag"), resp.Header.Get("Last-Modified")
		if etag != "" || lm != "" {
			c.validators.Set(cacheKey, cachedResponse{
				etag:         etag,
				lastModified: lm,
				contentType:  out.ContentType,
				body:         body,
			}, c.config.CacheTTL)
		} else if haveCached {
			c.validators.Delete(cacheKey)
		}
	}
	return out, nil
}

// Prune drops expired validators and returns how many were removed.
func (c *Client) Prune() int {
	return c.validators.CleanExpired()
}

// Probe checks that rawURL answers below 400. HEAD is tried first and GET
// is used when the server rejects HEAD.
func (c *Client) Probe(ctx context.Context, rawURL string) error {
	resp, err := c.Request(ctx, http.MethodHead, rawURL, nil)
	if err == nil {
		drain(resp)
		switch resp.StatusCode {
		case http.StatusMethodNotAllowed, http.StatusNotImplemented, http.StatusForbidden:
		default:
			if resp.StatusCode >= 400 {
				return errors.NewStatusError(rawURL, resp.StatusCode)
			}
			return nil
		}
	}

	resp, err = c.Request(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode >= 400 {
		return errors.NewStatusError(rawURL, resp.StatusCode)
	}
	return nil
}

func (c *Client) cached(key string) (cachedResponse, bool) {
	if c.config.CacheTTL <= 0 {
		return cachedResponse{}, false
	}
	return c.validators.Get(key)
}

// ReadBody decodes and reads the body up to MaxBodyBytes, then closes it.
func (c *Client) ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
		}
		defer gz.Close()
		r = gz
	}

	body, err := io.ReadAll(io.LimitReader(r, c.config.MaxBodyBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if int64(len(body)) > c.config.MaxBodyBytes {
		return nil, errors.Wrapf(errors.ErrTooLarge, "body exceeds %d bytes", c.config.MaxBodyBytes)
	}
	return body, nil
}

// CheckStatus turns a non-2xx response into a StatusError.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	u := ""
	if resp.Request != nil && resp.Request.URL != nil {
		u = resp.Request.URL.String()
	}
	return errors.NewStatusError(u, resp.StatusCode)
}

// SiteKey groups URLs by registrable domain (eTLD+1) so subdomains of one
// site share a rate limit. Hosts without a public suffix (IPs, localhost)
// are used as-is.
func SiteKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) != nil {
		return host
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}
	return host
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return true
	default:
		return false
	}
}

// classify attaches a sentinel to transport errors.
func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrTimeout, err.Error())
	case errors.As(err, &netErr) && netErr.Timeout():
		return errors.Wrap(errors.ErrTimeout, err.Error())
	default:
		return errors.Wrap(errors.ErrConnectionFailed, err.Error())
	}
}

func (c *Client) backoff(ctx context.Context, attempt int) error {
	d := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if d > c.config.MaxRetryBackoff {
		d = c.config.MaxRetryBackoff
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

func headerFingerprint(h map[string]string) string {
	if len(h) == 0 {
		return ""
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(h[k])
		b.WriteByte(';')
	}
	return b.String()
}

// String summarizes the configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, rate_per_host=%.1f/s}",
		c.config.Timeout, c.config.MaxRetries, c.config.RatePerHost)
}

var (
	_ ports.HTTPGetter = (*Client)(nil)
	_ ports.LinkProber = (*Client)(nil)
)

// internal/scraper/client.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/valpere/MediaScrapexter/internal/utils"
)

// Fetcher retrieves the markup for a listing URL. The plain HTTP client
// below is the default; the browser package provides a rendered variant
// for JS-heavy sites, and tests substitute fixtures.
type Fetcher interface {
	Get(ctx context.Context, targetURL string) (*FetchResult, error)
}

// FetchResult is the outcome of a successful (2xx or 404) fetch.
type FetchResult struct {
	StatusCode  int
	Body        string
	ContentType string
	FinalURL    string
	Duration    time.Duration
}

// NotFound reports whether the upstream answered 404. Drivers treat this
// as "no results", not as a failure.
func (r *FetchResult) NotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

// ClientConfig defines configuration options for the HTTP fetch client.
type ClientConfig struct {
	Timeout    time.Duration
	UserAgents []string
	Headers    map[string]string
	RateLimit  float64 // requests per second
	RateBurst  int
	MaxBody    int64 // response body cap in bytes
}

// HTTPClient is the production Fetcher: browser-like headers, user agent
// rotation, rate limiting, and a hard per-request timeout. It does not
// retry; resilience policy belongs to the caller, not the fetch layer.
type HTTPClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgents []string
	headers    map[string]string
	maxBody    int64
	currentUA  int
	uaMutex    sync.Mutex
}

// NewHTTPClient creates a fetch client with the specified configuration.
func NewHTTPClient(config ClientConfig) *HTTPClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2.0
	}
	if config.RateBurst == 0 {
		config.RateBurst = 4
	}
	if config.MaxBody == 0 {
		config.MaxBody = 8 << 20 // 8 MiB of listing markup is plenty
	}
	if len(config.UserAgents) == 0 {
		config.UserAgents = defaultUserAgents()
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		userAgents: config.UserAgents,
		headers:    config.Headers,
		maxBody:    config.MaxBody,
	}
}

// Get performs a single GET request. 2xx and 404 return a FetchResult;
// any other status maps to a NETWORK_STATUS error, timeouts to
// NETWORK_TIMEOUT, and transport failures to NETWORK_FAILURE.
func (c *HTTPClient) Get(ctx context.Context, targetURL string) (*FetchResult, error) {
	if _, err := url.Parse(targetURL); err != nil {
		return nil, utils.NewErrorf(utils.ErrCodeNetworkFailure, "invalid URL %q", targetURL).WithCause(err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, utils.NewError(utils.ErrCodeNetworkTimeout, "rate limiter wait aborted").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, utils.NewErrorf(utils.ErrCodeNetworkFailure, "failed to create request for %q", targetURL).WithCause(err)
	}
	c.setRequestHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, utils.NewErrorf(utils.ErrCodeNetworkTimeout, "fetch of %s timed out", targetURL).
				WithCause(err).WithContext("url", targetURL)
		}
		return nil, utils.NewErrorf(utils.ErrCodeNetworkFailure, "fetch of %s failed", targetURL).
			WithCause(err).WithContext("url", targetURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Upstream search pages answer 404 for empty result sets.
		return &FetchResult{
			StatusCode: resp.StatusCode,
			FinalURL:   resp.Request.URL.String(),
			Duration:   time.Since(start),
		}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.NewErrorf(utils.ErrCodeNetworkStatus, "HTTP %d from %s", resp.StatusCode, targetURL).
			WithContext("status", resp.StatusCode).
			WithContext("url", targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		if isTimeout(err) {
			return nil, utils.NewErrorf(utils.ErrCodeNetworkTimeout, "reading %s timed out", targetURL).WithCause(err)
		}
		return nil, utils.NewErrorf(utils.ErrCodeNetworkFailure, "reading body of %s failed", targetURL).WithCause(err)
	}

	return &FetchResult{
		StatusCode:  resp.StatusCode,
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		Duration:    time.Since(start),
	}, nil
}

// setRequestHeaders configures browser-like headers and UA rotation.
func (c *HTTPClient) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

// nextUserAgent returns the next user agent in rotation.
func (c *HTTPClient) nextUserAgent() string {
	c.uaMutex.Lock()
	defer c.uaMutex.Unlock()

	if len(c.userAgents) == 0 {
		return "MediaScrapexter/1.0"
	}
	ua := c.userAgents[c.currentUA]
	c.currentUA = (c.currentUA + 1) % len(c.userAgents)
	return ua
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// defaultUserAgents returns a set of realistic user agent strings.
func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	}
}

var _ Fetcher = (*HTTPClient)(nil)

// String implements fmt.Stringer for debug logging.
func (c *HTTPClient) String() string {
	return fmt.Sprintf("HTTPClient(timeout=%s, user_agents=%d)", c.httpClient.Timeout, len(c.userAgents))
}

// internal/browser/browser.go

// Package browser provides a headless-Chrome variant of the fetch layer
// for sites that assemble their listing markup with JavaScript. Each Get
// runs in a fresh browser context; there is no tab pooling.
package browser

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
)

// Renderer fetches pages through headless Chrome and returns the DOM
// after scripts have run. It satisfies the same Fetcher contract as the
// plain HTTP client.
type Renderer struct {
	timeout      time.Duration
	waitSelector string
	userAgent    string
	log          utils.Logger
}

// NewRenderer builds a renderer from the browser configuration.
func NewRenderer(cfg config.BrowserConfig, log utils.Logger) *Renderer {
	if log == nil {
		log = utils.NopLogger{}
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	return &Renderer{
		timeout:      timeout,
		waitSelector: cfg.WaitSelector,
		userAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		log:          log,
	}
}

// Get navigates to the URL, waits for the page (and the configured
// selector, if any) to appear, and returns the rendered HTML. Rendered
// fetches cannot observe HTTP status codes the way the plain client
// does, so an empty document is reported as a network failure rather
// than a 404.
func (r *Renderer) Get(ctx context.Context, targetURL string) (*scraper.FetchResult, error) {
	start := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(r.userAgent),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	tasks := []chromedp.Action{
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	}
	if r.waitSelector != "" {
		tasks = append(tasks, chromedp.WaitVisible(r.waitSelector, chromedp.ByQuery))
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	r.log.Debugf("rendering %s (wait=%q timeout=%s)", targetURL, r.waitSelector, r.timeout)

	if err := chromedp.Run(runCtx, tasks...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, utils.NewErrorf(utils.ErrCodeNetworkTimeout, "rendering %s timed out", targetURL).
				WithCause(err).WithContext("url", targetURL)
		}
		return nil, utils.NewErrorf(utils.ErrCodeNetworkFailure, "rendering %s failed", targetURL).
			WithCause(err).WithContext("url", targetURL)
	}

	if strings.TrimSpace(html) == "" {
		return nil, utils.NewErrorf(utils.ErrCodeNetworkFailure, "rendering %s produced an empty document", targetURL)
	}

	return &scraper.FetchResult{
		StatusCode:  http.StatusOK,
		Body:        html,
		ContentType: "text/html",
		FinalURL:    targetURL,
		Duration:    time.Since(start),
	}, nil
}

var _ scraper.Fetcher = (*Renderer)(nil)

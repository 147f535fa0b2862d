// pkg/api/service_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/valpere/MediaScrapexter/internal/drivers"
	"github.com/valpere/MediaScrapexter/internal/monitoring"
	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// stubFetcher serves canned results; every Get returns the same outcome.
type stubFetcher struct {
	mu      sync.Mutex
	result  *scraper.FetchResult
	err     error
	lastURL string
	calls   int
}

func (f *stubFetcher) Get(ctx context.Context, targetURL string) (*scraper.FetchResult, error) {
	f.mu.Lock()
	f.lastURL = targetURL
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

const vidoraPage = `
<div class="video-list">
	<div class="video-item" data-id="1234567">
		<a class="video-link" href="/videos/clip-1234567" title="A Clip"></a>
		<img class="thumb" data-src="/t/1234567.jpg">
		<span class="duration">5:00</span>
	</div>
</div>`

func newTestService(t *testing.T, fetcher scraper.Fetcher) *Service {
	t.Helper()
	service, err := NewService(ServiceOptions{
		Registry: drivers.NewDefaultRegistry(utils.NopLogger{}),
		Fetcher:  fetcher,
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service
}

func TestServiceSearch(t *testing.T) {
	fetcher := &stubFetcher{result: &scraper.FetchResult{
		StatusCode: 200,
		Body:       vidoraPage,
	}}
	service := newTestService(t, fetcher)

	result, err := service.Search(context.Background(), SearchRequest{
		Source:      "vidora",
		Query:       "clip",
		ContentType: types.ContentTypeVideos,
		Page:        1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.lastURL != "https://vidora.tv/search/clip" {
		t.Errorf("unexpected fetch url %q", fetcher.lastURL)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].ID != "1234567" || result.Items[0].Source != "Vidora" {
		t.Errorf("unexpected item %+v", result.Items[0])
	}
	if result.Warning != "" {
		t.Errorf("successful extraction must not warn, got %q", result.Warning)
	}
}

func TestServiceSearch404MeansEmpty(t *testing.T) {
	fetcher := &stubFetcher{result: &scraper.FetchResult{StatusCode: 404}}
	service := newTestService(t, fetcher)

	result, err := service.Search(context.Background(), SearchRequest{
		Source:      "vidora",
		Query:       "nothing",
		ContentType: types.ContentTypeVideos,
		Page:        1,
	})
	if err != nil {
		t.Fatalf("404 must not be an error: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected empty result, got %d items", len(result.Items))
	}
	if result.Items == nil {
		t.Error("items must be an empty slice, not nil")
	}
}

func TestServiceSearchZeroItemsWarns(t *testing.T) {
	fetcher := &stubFetcher{result: &scraper.FetchResult{
		StatusCode: 200,
		Body:       "<html><body><p>layout changed completely</p></body></html>",
	}}
	service := newTestService(t, fetcher)

	result, err := service.Search(context.Background(), SearchRequest{
		Source:      "vidora",
		Query:       "clip",
		ContentType: types.ContentTypeVideos,
		Page:        1,
	})
	if err != nil {
		t.Fatalf("markup drift must stay a successful empty result: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
	if result.Warning == "" {
		t.Error("zero items from a 200 page must carry a warning")
	}
}

func TestServiceSearchRecordsDroppedItems(t *testing.T) {
	const page = `
<div class="video-list">
	<div class="video-item">
		<a class="video-link" href="/videos/clip-1234567" title="Good Clip"></a>
		<img class="thumb" data-src="/t/1234567.jpg">
	</div>
	<div class="video-item"><span>broken card without a link</span></div>
</div>`

	mm := monitoring.NewMetricsManagerWith("test", prometheus.NewRegistry())
	fetcher := &stubFetcher{result: &scraper.FetchResult{StatusCode: 200, Body: page}}
	service, err := NewService(ServiceOptions{
		Registry: drivers.NewDefaultRegistry(utils.NopLogger{}),
		Fetcher:  fetcher,
		Metrics:  mm,
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}

	result, err := service.Search(context.Background(), SearchRequest{
		Source:      "vidora",
		Query:       "clip",
		ContentType: types.ContentTypeVideos,
		Page:        1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 surviving item, got %d", len(result.Items))
	}

	rec := httptest.NewRecorder()
	mm.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `test_items_dropped_total{source="vidora",type="videos"} 1`) {
		t.Errorf("dropped-item counter did not record the broken card:\n%s", body)
	}
	if !strings.Contains(body, `test_items_extracted_total{source="vidora",type="videos"} 1`) {
		t.Errorf("extracted-item counter did not record the surviving card:\n%s", body)
	}
}

func TestServiceSearchNetworkErrorPropagates(t *testing.T) {
	fetcher := &stubFetcher{err: utils.NewError(utils.ErrCodeNetworkTimeout, "timed out")}
	service := newTestService(t, fetcher)

	_, err := service.Search(context.Background(), SearchRequest{
		Source:      "vidora",
		Query:       "clip",
		ContentType: types.ContentTypeVideos,
		Page:        1,
	})
	if utils.CodeOf(err) != utils.ErrCodeNetworkTimeout {
		t.Errorf("expected NETWORK_TIMEOUT, got %v", err)
	}
}

func TestServiceSearchRejections(t *testing.T) {
	fetcher := &stubFetcher{result: &scraper.FetchResult{StatusCode: 200, Body: "<html></html>"}}
	service := newTestService(t, fetcher)

	tests := []struct {
		name     string
		req      SearchRequest
		expected utils.ErrorCode
	}{
		{
			name:     "unknown source",
			req:      SearchRequest{Source: "nosuchsite", Query: "x", ContentType: types.ContentTypeVideos, Page: 1},
			expected: utils.ErrCodeUnsupportedDriver,
		},
		{
			name:     "unsupported capability",
			req:      SearchRequest{Source: "vidora", Query: "x", ContentType: types.ContentTypeGifs, Page: 1},
			expected: utils.ErrCodeUnsupportedCapability,
		},
		{
			name:     "empty query",
			req:      SearchRequest{Source: "vidora", Query: "  ", ContentType: types.ContentTypeVideos, Page: 1},
			expected: utils.ErrCodeEmptyQuery,
		},
		{
			name:     "invalid content type",
			req:      SearchRequest{Source: "vidora", Query: "x", ContentType: "images", Page: 1},
			expected: utils.ErrCodeInvalidConfig,
		},
	}

	before := fetcher.calls
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Search(context.Background(), tt.req)
			if utils.CodeOf(err) != tt.expected {
				t.Errorf("expected %s, got %v", tt.expected, err)
			}
		})
	}
	if fetcher.calls != before {
		t.Error("rejected requests must never reach the network")
	}
}

func TestServiceSearchConcurrent(t *testing.T) {
	fetcher := &stubFetcher{result: &scraper.FetchResult{StatusCode: 200, Body: vidoraPage}}
	service := newTestService(t, fetcher)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := service.Search(context.Background(), SearchRequest{
				Source:      "vidora",
				Query:       "clip",
				ContentType: types.ContentTypeVideos,
				Page:        1,
			})
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("concurrent search failed: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent searches timed out")
		}
	}

	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	if calls != 8 {
		t.Errorf("identical searches must not be coalesced: expected 8 fetches, got %d", calls)
	}
}

func TestServiceSuggestWithoutAssistant(t *testing.T) {
	service := newTestService(t, &stubFetcher{result: &scraper.FetchResult{StatusCode: 200, Body: "<html></html>"}})
	_, err := service.Suggest(context.Background(), "vidora", types.ContentTypeVideos, "x")
	if utils.CodeOf(err) != utils.ErrCodeAssistFailed {
		t.Errorf("expected ASSIST_FAILED, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceOptions{}); err == nil {
		t.Error("missing registry must fail")
	}
	if _, err := NewService(ServiceOptions{Registry: drivers.NewDefaultRegistry(utils.NopLogger{})}); err == nil {
		t.Error("missing fetcher must fail")
	}
}

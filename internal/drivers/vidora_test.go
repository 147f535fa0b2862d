// internal/drivers/vidora_test.go
package drivers

import (
	"errors"
	"testing"

	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

func parseFixture(t *testing.T, markup, baseURL string) *scraper.HTMLParser {
	t.Helper()
	parser, err := scraper.NewHTMLParser(markup, baseURL)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return parser
}

func TestVidoraVideoSearchURL(t *testing.T) {
	d := NewVidora(utils.NopLogger{})

	tests := []struct {
		name     string
		query    string
		page     int
		expected string
	}{
		{"first page omits page segment", "cats", 1, "https://vidora.tv/search/cats"},
		{"second page keeps page segment", "cats", 2, "https://vidora.tv/search/cats/page/2"},
		{"page below first clamps to first", "cats", 0, "https://vidora.tv/search/cats"},
		{"negative page clamps to first", "cats", -3, "https://vidora.tv/search/cats"},
		{"query is percent encoded", "cute cats", 2, "https://vidora.tv/search/cute%20cats/page/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.VideoSearchURL(tt.query, tt.page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestVidoraVideoSearchURLEmptyQuery(t *testing.T) {
	d := NewVidora(utils.NopLogger{})
	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := d.VideoSearchURL(query, 1)
		if err == nil {
			t.Fatalf("query %q should be rejected", query)
		}
		if !errors.Is(err, utils.NewError(utils.ErrCodeEmptyQuery, "")) {
			t.Errorf("expected CONFIG_EMPTY_QUERY, got %s", utils.CodeOf(err))
		}
	}
}

const vidoraListing = `
<div class="video-list">
	<div class="video-item" data-id="1111111">
		<a class="video-link" href="/videos/first-clip-1111111" title="First Clip" data-preview="/previews/1111111.webm">First</a>
		<img class="thumb" src="/placeholder.png" data-src="/thumbs/1111111.jpg">
		<span class="duration">10:00</span>
	</div>
	<div class="video-item">
		<a class="video-link" href="/videos/second-clip-2222222">Second Clip</a>
		<img class="thumb" src="/thumbs/2222222.jpg">
		<span class="video-duration">2:30</span>
	</div>
	<div class="video-item">
		<span>no link here, item must be dropped</span>
	</div>
</div>`

func TestVidoraParseVideos(t *testing.T) {
	d := NewVidora(utils.NopLogger{})
	items, dropped := d.ParseVideos(parseFixture(t, vidoraListing, d.BaseURL()))

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if dropped != 1 {
		t.Errorf("the linkless card must be counted as dropped, got %d", dropped)
	}

	first := items[0]
	if first.ID != "1111111" {
		t.Errorf("explicit data-id should win, got %q", first.ID)
	}
	if first.Title != "First Clip" {
		t.Errorf("title attribute should win, got %q", first.Title)
	}
	if first.URL != "https://vidora.tv/videos/first-clip-1111111" {
		t.Errorf("unexpected url %q", first.URL)
	}
	if first.Thumbnail != "https://vidora.tv/thumbs/1111111.jpg" {
		t.Errorf("lazy data-src should beat placeholder src, got %q", first.Thumbnail)
	}
	if first.PreviewVideo != "https://vidora.tv/previews/1111111.webm" {
		t.Errorf("unexpected preview %q", first.PreviewVideo)
	}
	if first.Duration != "10:00" {
		t.Errorf("unexpected duration %q", first.Duration)
	}
	if first.Source != "Vidora" || first.Type != types.ContentTypeVideos {
		t.Errorf("unexpected source/type %q/%q", first.Source, first.Type)
	}

	second := items[1]
	if second.ID != "2222222" {
		t.Errorf("id should be mined from the url, got %q", second.ID)
	}
	if second.Title != "Second Clip" {
		t.Errorf("link text fallback failed, got %q", second.Title)
	}
	if second.PreviewVideo != "" {
		t.Errorf("jpg thumbnail must not become a preview, got %q", second.PreviewVideo)
	}
	if second.Duration != "2:30" {
		t.Errorf("duration fallback selector failed, got %q", second.Duration)
	}

	for i, item := range items {
		if err := item.Validate(); err != nil {
			t.Errorf("item %d fails schema validation: %v", i, err)
		}
	}
}

func TestVidoraParseVideosDeterministic(t *testing.T) {
	d := NewVidora(utils.NopLogger{})
	first, _ := d.ParseVideos(parseFixture(t, vidoraListing, d.BaseURL()))
	second, _ := d.ParseVideos(parseFixture(t, vidoraListing, d.BaseURL()))

	if len(first) != len(second) {
		t.Fatalf("parse is not deterministic: %d vs %d items", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("item %d differs between runs", i)
		}
	}
}

func TestVidoraParseVideosGarbledPage(t *testing.T) {
	d := NewVidora(utils.NopLogger{})
	items, dropped := d.ParseVideos(parseFixture(t, "<<<garbage>>>", d.BaseURL()))
	if len(items) != 0 {
		t.Errorf("garbled page should yield zero items, got %d", len(items))
	}
	if dropped != 0 {
		t.Errorf("no containers means nothing to drop, got %d", dropped)
	}
}

func TestVidoraContainerFallback(t *testing.T) {
	markup := `
	<div class="content-grid">
		<div class="thumb-block">
			<a class="video-link" href="/videos/3333333" title="Grid Clip"></a>
			<img class="thumb" data-src="/thumbs/3333333.jpg">
		</div>
	</div>`

	d := NewVidora(utils.NopLogger{})
	items, _ := d.ParseVideos(parseFixture(t, markup, d.BaseURL()))
	if len(items) != 1 {
		t.Fatalf("fallback container should match, got %d items", len(items))
	}
	if items[0].ID != "3333333" {
		t.Errorf("unexpected id %q", items[0].ID)
	}
}

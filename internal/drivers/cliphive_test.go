// internal/drivers/cliphive_test.go
package drivers

import (
	"testing"

	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

func TestClipHiveSearchURLs(t *testing.T) {
	d := NewClipHive(utils.NopLogger{})

	tests := []struct {
		name     string
		ct       types.ContentType
		query    string
		page     int
		expected string
	}{
		{"video first page keeps param", types.ContentTypeVideos, "cats", 1, "https://cliphive.com/search?page=1&q=cats"},
		{"video later page", types.ContentTypeVideos, "cats", 3, "https://cliphive.com/search?page=3&q=cats"},
		{"video page clamped", types.ContentTypeVideos, "cats", 0, "https://cliphive.com/search?page=1&q=cats"},
		{"gif path differs", types.ContentTypeGifs, "cats", 2, "https://cliphive.com/gifs/search?page=2&q=cats"},
		{"query is query-encoded", types.ContentTypeVideos, "cute cats & dogs", 1, "https://cliphive.com/search?page=1&q=cute+cats+%26+dogs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildSearchURL(d, tt.ct, tt.query, tt.page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestClipHiveEmptyQuery(t *testing.T) {
	d := NewClipHive(utils.NopLogger{})
	for _, ct := range []types.ContentType{types.ContentTypeVideos, types.ContentTypeGifs} {
		if _, err := BuildSearchURL(d, ct, "  ", 1); utils.CodeOf(err) != utils.ErrCodeEmptyQuery {
			t.Errorf("%s: expected CONFIG_EMPTY_QUERY, got %v", ct, err)
		}
	}
}

const cliphiveVideoListing = `
<div class="results">
	<div class="clip-card video" data-clip-id="5550001">
		<a class="clip-title" href="/watch/5550001" title="Video One"></a>
		<img class="clip-thumb" data-src="/t/5550001.jpg" data-webm="/p/5550001.webm" data-preview="/p/5550001.mp4">
		<span class="length">1:23</span>
	</div>
	<div class="clip-card video">
		<a class="clip-title" href="/watch/5550002">Video Two</a>
		<img class="clip-thumb" src="/t/5550002.jpg" data-preview="/p/5550002.mp4">
	</div>
</div>`

func TestClipHiveParseVideos(t *testing.T) {
	d := NewClipHive(utils.NopLogger{})
	items, _ := d.ParseVideos(parseFixture(t, cliphiveVideoListing, d.BaseURL()))

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].PreviewVideo != "https://cliphive.com/p/5550001.webm" {
		t.Errorf("data-webm must take precedence, got %q", items[0].PreviewVideo)
	}
	if items[1].PreviewVideo != "https://cliphive.com/p/5550002.mp4" {
		t.Errorf("data-preview fallback failed, got %q", items[1].PreviewVideo)
	}
	if items[0].ID != "5550001" {
		t.Errorf("explicit data-clip-id should win, got %q", items[0].ID)
	}
	if items[1].ID != "5550002" {
		t.Errorf("id should be mined from /watch/ url, got %q", items[1].ID)
	}
	if items[0].Duration != "1:23" {
		t.Errorf("unexpected duration %q", items[0].Duration)
	}
	if items[1].Duration != "" {
		t.Errorf("missing duration should stay empty, got %q", items[1].Duration)
	}
}

const cliphiveGifListing = `
<div class="gif-results">
	<div class="gif-card" data-gif-id="7770001">
		<a class="gif-link" href="/gifs/7770001" title="Gif One"></a>
		<img class="gif-thumb" data-src="/t/7770001.gif" data-gif="/g/7770001.gif">
	</div>
</div>`

func TestClipHiveParseGifs(t *testing.T) {
	d := NewClipHive(utils.NopLogger{})
	items, _ := d.ParseGifs(parseFixture(t, cliphiveGifListing, d.BaseURL()))

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Type != types.ContentTypeGifs {
		t.Errorf("unexpected type %q", item.Type)
	}
	if item.Duration != "" {
		t.Error("gif items never carry a duration")
	}
	if item.PreviewVideo != "https://cliphive.com/g/7770001.gif" {
		t.Errorf("unexpected preview %q", item.PreviewVideo)
	}
}

func TestClipHiveMalformedItemIsolation(t *testing.T) {
	markup := `
	<div class="results">
		<div class="clip-card video"><span>broken card</span></div>
		<div class="clip-card video">
			<a class="clip-title" href="/watch/5550003" title="Survivor"></a>
			<img class="clip-thumb" src="/t/5550003.jpg">
		</div>
	</div>`

	d := NewClipHive(utils.NopLogger{})
	items, dropped := d.ParseVideos(parseFixture(t, markup, d.BaseURL()))
	if len(items) != 1 {
		t.Fatalf("one malformed card must not affect siblings, got %d items", len(items))
	}
	if dropped != 1 {
		t.Errorf("the broken card must be counted as dropped, got %d", dropped)
	}
	if items[0].Title != "Survivor" {
		t.Errorf("unexpected title %q", items[0].Title)
	}
}

// internal/drivers/vidora.go
package drivers

import (
	"fmt"
	"net/url"

	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// Vidora is a video-only source.
//
// Pagination convention: 1-indexed, and page 1 omits the page segment
// entirely: /search/{query} for the first page, /search/{query}/page/{n}
// afterwards. The site 404s on /page/1, so the omission is load-bearing.
type Vidora struct {
	site
}

// NewVidora constructs a fresh driver instance for one search invocation.
func NewVidora(log utils.Logger) *Vidora {
	return &Vidora{site{
		name:        "vidora",
		displayName: "Vidora",
		baseURL:     "https://vidora.tv",
		firstPage:   1,
		log:         log,
	}}
}

// VideoSearchURL builds the listing URL for a video search.
func (d *Vidora) VideoSearchURL(query string, page int) (string, error) {
	if err := validateQuery(query); err != nil {
		return "", err
	}
	page = d.clampPage(page)

	escaped := url.PathEscape(query)
	if page == d.firstPage {
		return fmt.Sprintf("%s/search/%s", d.baseURL, escaped), nil
	}
	return fmt.Sprintf("%s/search/%s/page/%d", d.baseURL, escaped, page), nil
}

// ParseVideos extracts MediaItem records from a Vidora listing page.
func (d *Vidora) ParseVideos(parser *scraper.HTMLParser) ([]types.MediaItem, int) {
	rules := listingRules{
		// Pure search listings use .video-item; category pages mix in
		// .thumb-block markup for the same cards.
		containers: []string{
			".video-list .video-item",
			".content-grid .thumb-block",
		},
		link:    "a.video-link",
		idAttrs: []string{"data-id"},
		title:   scraper.TitleChain("a.video-link"),
		thumb:   scraper.ThumbnailChain("img.thumb"),
		duration: scraper.Chain{
			{Selector: ".duration"},
			{Selector: ".video-duration"},
		},
		preview: scraper.Chain{
			{Selector: "a.video-link", Attr: "data-preview"},
			{Selector: "img.thumb", Attr: "data-preview"},
		},
	}
	return d.parseListing(parser, rules, types.ContentTypeVideos)
}

var _ VideoSearcher = (*Vidora)(nil)

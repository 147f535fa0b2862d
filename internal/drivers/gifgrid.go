// internal/drivers/gifgrid.go
package drivers

import (
	"fmt"
	"net/url"

	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// GifGrid is a gif-only legacy source.
//
// Pagination convention: 0-indexed query parameter; /search?q={query}&page=0
// is the first page. The site predates dedicated preview assets: cards
// carry the animated .gif directly in the thumbnail slot, so the
// thumbnail-as-preview fallback applies to almost every item.
//
// GifGrid exposes no upstream identifier for many cards; those get a
// documented synthetic id of the form "gifgrid_gifs_{index}", clearly
// distinguishable from the numeric ids real cards carry.
type GifGrid struct {
	site
}

// NewGifGrid constructs a fresh driver instance for one search invocation.
func NewGifGrid(log utils.Logger) *GifGrid {
	return &GifGrid{site{
		name:        "gifgrid",
		displayName: "GifGrid",
		baseURL:     "https://gifgrid.net",
		firstPage:   0,
		log:         log,
	}}
}

// GifSearchURL builds the listing URL for a gif search.
func (d *GifGrid) GifSearchURL(query string, page int) (string, error) {
	if err := validateQuery(query); err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", fmt.Sprintf("%d", d.clampPage(page)))
	return fmt.Sprintf("%s/search?%s", d.baseURL, params.Encode()), nil
}

// ParseGifs extracts MediaItem records from a GifGrid listing page.
func (d *GifGrid) ParseGifs(parser *scraper.HTMLParser) ([]types.MediaItem, int) {
	rules := listingRules{
		containers: []string{
			"#grid .cell",
			".grid .cell",
		},
		link:  "a",
		title: scraper.TitleChain("a"),
		thumb: scraper.ThumbnailChain("img"),
		// No dedicated preview attribute exists on this site; the
		// thumbnail-as-preview fallback in the shared pipeline covers it.
		preview:           scraper.Chain{},
		placeholderIDs:    true,
		placeholderTitles: true,
	}
	return d.parseListing(parser, rules, types.ContentTypeGifs)
}

var _ GifSearcher = (*GifGrid)(nil)

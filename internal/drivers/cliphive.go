// internal/drivers/cliphive.go
package drivers

import (
	"fmt"
	"net/url"

	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// ClipHive supports both videos and gifs.
//
// Pagination convention: 1-indexed query parameter, always present.
// /search?q={query}&page={n} for videos, /gifs/search?q={query}&page={n}
// for gifs. Unlike Vidora, page 1 keeps its page parameter.
type ClipHive struct {
	site
}

// NewClipHive constructs a fresh driver instance for one search invocation.
func NewClipHive(log utils.Logger) *ClipHive {
	return &ClipHive{site{
		name:        "cliphive",
		displayName: "ClipHive",
		baseURL:     "https://cliphive.com",
		firstPage:   1,
		log:         log,
	}}
}

func (d *ClipHive) searchURL(path, query string, page int) (string, error) {
	if err := validateQuery(query); err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", fmt.Sprintf("%d", d.clampPage(page)))
	return fmt.Sprintf("%s%s?%s", d.baseURL, path, params.Encode()), nil
}

// VideoSearchURL builds the listing URL for a video search.
func (d *ClipHive) VideoSearchURL(query string, page int) (string, error) {
	return d.searchURL("/search", query, page)
}

// GifSearchURL builds the listing URL for a gif search.
func (d *ClipHive) GifSearchURL(query string, page int) (string, error) {
	return d.searchURL("/gifs/search", query, page)
}

// ParseVideos extracts MediaItem records from a ClipHive video listing.
func (d *ClipHive) ParseVideos(parser *scraper.HTMLParser) ([]types.MediaItem, int) {
	rules := listingRules{
		containers: []string{
			".results .clip-card.video",
			".results .clip-card",
		},
		link:    "a.clip-title",
		idAttrs: []string{"data-clip-id", "data-id"},
		title:   scraper.TitleChain("a.clip-title"),
		thumb:   scraper.ThumbnailChain("img.clip-thumb"),
		duration: scraper.Chain{
			{Selector: "span.length"},
		},
		// Dedicated webm preview first, generic preview attribute second.
		preview: scraper.Chain{
			{Selector: "img.clip-thumb", Attr: "data-webm"},
			{Selector: "img.clip-thumb", Attr: "data-preview"},
		},
	}
	return d.parseListing(parser, rules, types.ContentTypeVideos)
}

// ParseGifs extracts MediaItem records from a ClipHive gif listing.
func (d *ClipHive) ParseGifs(parser *scraper.HTMLParser) ([]types.MediaItem, int) {
	rules := listingRules{
		containers: []string{
			".gif-results .gif-card",
			".results .clip-card.gif",
		},
		link:    "a.gif-link",
		idAttrs: []string{"data-gif-id", "data-id"},
		title:   scraper.TitleChain("a.gif-link"),
		thumb:   scraper.ThumbnailChain("img.gif-thumb"),
		preview: scraper.Chain{
			{Selector: "img.gif-thumb", Attr: "data-webm"},
			{Selector: "img.gif-thumb", Attr: "data-gif"},
		},
	}
	return d.parseListing(parser, rules, types.ContentTypeGifs)
}

var (
	_ VideoSearcher = (*ClipHive)(nil)
	_ GifSearcher   = (*ClipHive)(nil)
)

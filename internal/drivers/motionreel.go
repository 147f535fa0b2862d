// internal/drivers/motionreel.go
package drivers

import (
	"fmt"
	"net/url"

	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// MotionReel is a video-only source whose listings are rendered
// client-side; the service fetches it through the browser fetcher when one
// is configured, falling back to the plain client otherwise.
//
// Pagination convention: 1-indexed query parameter,
// /videos?search={query}&p={n}, page parameter always present.
type MotionReel struct {
	site
}

// NewMotionReel constructs a fresh driver instance for one search invocation.
func NewMotionReel(log utils.Logger) *MotionReel {
	return &MotionReel{site{
		name:         "motionreel",
		displayName:  "MotionReel",
		baseURL:      "https://www.motionreel.io",
		firstPage:    1,
		needsBrowser: true,
		log:          log,
	}}
}

// VideoSearchURL builds the listing URL for a video search.
func (d *MotionReel) VideoSearchURL(query string, page int) (string, error) {
	if err := validateQuery(query); err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("search", query)
	params.Set("p", fmt.Sprintf("%d", d.clampPage(page)))
	return fmt.Sprintf("%s/videos?%s", d.baseURL, params.Encode()), nil
}

// ParseVideos extracts MediaItem records from a rendered MotionReel page.
func (d *MotionReel) ParseVideos(parser *scraper.HTMLParser) ([]types.MediaItem, int) {
	rules := listingRules{
		containers: []string{
			"div.reel-grid article.reel",
			"main article.reel",
		},
		link: "a.reel-overlay",
		// MotionReel stamps the upstream id on the card itself.
		idAttrs: []string{"data-video-id"},
		title:   scraper.TitleChain("a.reel-overlay"),
		thumb:   scraper.ThumbnailChain("img.poster"),
		duration: scraper.Chain{
			{Selector: "time.duration"},
			{Selector: ".meta .duration"},
		},
		preview: scraper.Chain{
			// The preview source sits on the card element itself.
			{Attr: "data-preview-src"},
			{Selector: "img.poster", Attr: "data-preview"},
		},
	}
	return d.parseListing(parser, rules, types.ContentTypeVideos)
}

var _ VideoSearcher = (*MotionReel)(nil)

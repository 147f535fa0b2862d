// internal/drivers/driver.go

// Package drivers contains the per-site driver implementations and the
// registry that dispatches search requests to them. A driver is a cheap,
// stateless unit combining a base URL, pagination convention, capability
// set, and the selector rules its listing parser feeds into the shared
// extraction pipeline.
package drivers

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// Driver is the per-site unit every source implements. Search behavior
// per content type lives in the narrow capability interfaces below;
// dispatch asserts those instead of consulting boolean flags, so an
// unsupported capability is an explicit, testable error.
type Driver interface {
	// Name is the lowercase registry key
	Name() string

	// DisplayName is the canonical name stamped into MediaItem.Source
	DisplayName() string

	// BaseURL is the site root all relative references resolve against
	BaseURL() string

	// FirstPageIndex is the site's lowest valid page number; requested
	// pages below it are clamped, not rejected
	FirstPageIndex() int

	// NeedsBrowser reports whether listings require JS rendering
	NeedsBrowser() bool
}

// VideoSearcher is the video-search capability. Parse methods return the
// surviving items together with the count of containers dropped for
// missing mandatory fields, so callers can observe extraction misses.
type VideoSearcher interface {
	Driver
	VideoSearchURL(query string, page int) (string, error)
	ParseVideos(parser *scraper.HTMLParser) ([]types.MediaItem, int)
}

// GifSearcher is the gif-search capability.
type GifSearcher interface {
	Driver
	GifSearchURL(query string, page int) (string, error)
	ParseGifs(parser *scraper.HTMLParser) ([]types.MediaItem, int)
}

// Supports reports whether the driver implements the capability for the
// given content type.
func Supports(d Driver, ct types.ContentType) bool {
	switch ct {
	case types.ContentTypeVideos:
		_, ok := d.(VideoSearcher)
		return ok
	case types.ContentTypeGifs:
		_, ok := d.(GifSearcher)
		return ok
	}
	return false
}

// BuildSearchURL dispatches URL construction to the matching capability.
func BuildSearchURL(d Driver, ct types.ContentType, query string, page int) (string, error) {
	switch ct {
	case types.ContentTypeVideos:
		if vs, ok := d.(VideoSearcher); ok {
			return vs.VideoSearchURL(query, page)
		}
	case types.ContentTypeGifs:
		if gs, ok := d.(GifSearcher); ok {
			return gs.GifSearchURL(query, page)
		}
	}
	return "", utils.NewErrorf(utils.ErrCodeUnsupportedCapability,
		"driver %q does not support %s", d.Name(), ct).
		WithUserMessage(fmt.Sprintf("source %s has no %s search", d.DisplayName(), ct))
}

// Parse dispatches markup parsing to the matching capability and reports
// the extracted items plus the number of dropped containers.
func Parse(d Driver, parser *scraper.HTMLParser, ct types.ContentType) ([]types.MediaItem, int, error) {
	switch ct {
	case types.ContentTypeVideos:
		if vs, ok := d.(VideoSearcher); ok {
			items, dropped := vs.ParseVideos(parser)
			return items, dropped, nil
		}
	case types.ContentTypeGifs:
		if gs, ok := d.(GifSearcher); ok {
			items, dropped := gs.ParseGifs(parser)
			return items, dropped, nil
		}
	}
	return nil, 0, utils.NewErrorf(utils.ErrCodeUnsupportedCapability,
		"driver %q does not support %s", d.Name(), ct)
}

// site carries the configuration shared by every built-in driver. Drivers
// embed it and stay free of cross-request mutable state; a fresh instance
// is built per search invocation.
type site struct {
	name         string
	displayName  string
	baseURL      string
	firstPage    int
	needsBrowser bool
	log          utils.Logger
}

func (s *site) Name() string        { return s.name }
func (s *site) DisplayName() string { return s.displayName }
func (s *site) BaseURL() string     { return s.baseURL }
func (s *site) FirstPageIndex() int { return s.firstPage }
func (s *site) NeedsBrowser() bool  { return s.needsBrowser }

func (s *site) logger() utils.Logger {
	if s.log == nil {
		return utils.NopLogger{}
	}
	return s.log
}

// validateQuery rejects empty or whitespace-only queries before any URL
// is built.
func validateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return utils.NewError(utils.ErrCodeEmptyQuery, "search query cannot be empty").
			WithUserMessage("provide a non-empty search query")
	}
	return nil
}

// clampPage raises the requested page to the driver's first page index.
func (s *site) clampPage(page int) int {
	if page < s.firstPage {
		return s.firstPage
	}
	return page
}

// listingRules describes how one content type's listing markup maps onto
// the extraction pipeline: container fallbacks, the primary link, the
// selector chains per field, and the preview candidate precedence.
type listingRules struct {
	containers []string
	link       string
	idAttrs    []string
	title      scraper.Chain
	thumb      scraper.Chain
	duration   scraper.Chain
	preview    scraper.Chain

	// placeholderIDs turns on synthesized "{source}_{type}_{index}" ids
	// for sites that expose no usable identifier at all. The prefix keeps
	// them clearly distinguishable from real upstream ids.
	placeholderIDs bool

	// placeholderTitles allows a synthesized title when the whole title
	// chain comes up empty; without it the item is dropped.
	placeholderTitles bool
}

// parseListing runs the shared per-item pipeline: locate containers via
// the fallback list, extract link/title/thumbnail/duration/preview
// candidates, resolve id and URLs, and assemble MediaItem records in
// source document order. Items missing id, title, or url after all
// fallbacks are dropped, counted, and logged at debug level; one
// malformed item never affects its siblings.
func (s *site) parseListing(parser *scraper.HTMLParser, rules listingRules, ct types.ContentType) ([]types.MediaItem, int) {
	items := make([]types.MediaItem, 0)
	dropped := 0
	base := parser.BaseURL()
	log := s.logger()

	parser.FindContainers(rules.containers).Each(func(index int, container *goquery.Selection) {
		href := scraper.Chain{{Selector: rules.link, Attr: "href"}}.Extract(container)
		pageURL := scraper.ResolveURL(href, base)
		if pageURL == "" {
			dropped++
			log.Debugf("drop %s item %d: no resolvable link", s.name, index)
			return
		}

		explicitID := ""
		for _, attr := range rules.idAttrs {
			if v, ok := container.Attr(attr); ok {
				explicitID = v
				break
			}
		}
		id := scraper.ExtractID(explicitID, pageURL)
		if id == "" && rules.placeholderIDs {
			id = fmt.Sprintf("%s_%s_%d", s.name, ct, index)
		}
		if id == "" {
			dropped++
			log.Debugf("drop %s item %d: no stable id in %s", s.name, index, pageURL)
			return
		}

		title := rules.title.Extract(container)
		if title == "" && rules.placeholderTitles {
			title = fmt.Sprintf("%s %s #%d", s.displayName, ct, index+1)
		}
		if title == "" {
			dropped++
			log.Debugf("drop %s item %d: no title", s.name, index)
			return
		}

		thumbnail := scraper.ResolveURL(rules.thumb.Extract(container), base)

		preview := scraper.ResolvePreview(rules.preview.ExtractAll(container), base)
		if preview == "" && thumbnail != "" {
			preview = scraper.ThumbnailAsPreview(thumbnail)
		}

		item := types.MediaItem{
			ID:           id,
			Title:        title,
			URL:          pageURL,
			Thumbnail:    thumbnail,
			PreviewVideo: preview,
			Source:       s.displayName,
			Type:         ct,
		}
		if ct == types.ContentTypeVideos {
			item.Duration = rules.duration.Extract(container)
		}

		items = append(items, item)
	})

	return items, dropped
}

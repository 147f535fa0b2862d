// internal/drivers/external.go
package drivers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// External is a driver assembled entirely from configuration: URL
// templates plus selector rules, no compiled per-site code. It exists for
// sites the operator wires up without a release, and for overriding a
// built-in driver whose markup drifted. Definitions are validated at
// startup; by the time an External exists its configuration is known good.
//
// Capability presence follows the configured content types, surfaced
// through the external{Video,Gif,Both} wrappers so the ordinary interface
// assertions in the registry keep working.
type External struct {
	site
	cfg config.ExternalDriverConfig
}

// newExternal builds the driver core; callers wrap it per capability.
func newExternal(name string, cfg config.ExternalDriverConfig, log utils.Logger) *External {
	return &External{
		site: site{
			name:        name,
			displayName: cfg.DisplayName,
			baseURL:     cfg.BaseURL,
			firstPage:   cfg.FirstPageIndex,
			log:         log,
		},
		cfg: cfg,
	}
}

func (d *External) searchURL(ct types.ContentType, query string, page int) (string, error) {
	if err := validateQuery(query); err != nil {
		return "", err
	}
	tmpl, ok := d.cfg.URLTemplates[ct.String()]
	if !ok {
		return "", utils.NewErrorf(utils.ErrCodeUnsupportedCapability,
			"external driver %q has no %s url template", d.name, ct)
	}
	built := strings.ReplaceAll(tmpl, "{query}", url.QueryEscape(query))
	built = strings.ReplaceAll(built, "{page}", fmt.Sprintf("%d", d.clampPage(page)))
	return built, nil
}

func (d *External) parse(parser *scraper.HTMLParser, ct types.ContentType) ([]types.MediaItem, int) {
	cfgRules, ok := d.cfg.Rules[ct.String()]
	if !ok {
		return nil, 0
	}
	rules := listingRules{
		containers:        cfgRules.Containers,
		link:              cfgRules.Link,
		idAttrs:           cfgRules.IDAttrs,
		title:             toChain(cfgRules.Title),
		thumb:             toChain(cfgRules.Thumbnail),
		duration:          toChain(cfgRules.Duration),
		preview:           toChain(cfgRules.Preview),
		placeholderIDs:    cfgRules.PlaceholderIDs,
		placeholderTitles: cfgRules.PlaceholderTitles,
	}
	if len(rules.title) == 0 {
		rules.title = scraper.TitleChain(cfgRules.Link)
	}
	if len(rules.thumb) == 0 {
		rules.thumb = scraper.ThumbnailChain("img")
	}
	return d.parseListing(parser, rules, ct)
}

func toChain(locators []config.LocatorConfig) scraper.Chain {
	chain := make(scraper.Chain, 0, len(locators))
	for _, loc := range locators {
		chain = append(chain, scraper.Locator{Selector: loc.Selector, Attr: loc.Attr})
	}
	return chain
}

// externalVideo exposes only the video capability.
type externalVideo struct{ *External }

func (d externalVideo) VideoSearchURL(query string, page int) (string, error) {
	return d.searchURL(types.ContentTypeVideos, query, page)
}
func (d externalVideo) ParseVideos(parser *scraper.HTMLParser) ([]types.MediaItem, int) {
	return d.parse(parser, types.ContentTypeVideos)
}

// externalGif exposes only the gif capability.
type externalGif struct{ *External }

func (d externalGif) GifSearchURL(query string, page int) (string, error) {
	return d.searchURL(types.ContentTypeGifs, query, page)
}
func (d externalGif) ParseGifs(parser *scraper.HTMLParser) ([]types.MediaItem, int) {
	return d.parse(parser, types.ContentTypeGifs)
}

// externalBoth exposes both capabilities.
type externalBoth struct {
	externalVideo
	externalGif
}

func (d externalBoth) Name() string        { return d.externalVideo.Name() }
func (d externalBoth) DisplayName() string { return d.externalVideo.DisplayName() }
func (d externalBoth) BaseURL() string     { return d.externalVideo.BaseURL() }
func (d externalBoth) FirstPageIndex() int { return d.externalVideo.FirstPageIndex() }
func (d externalBoth) NeedsBrowser() bool  { return d.externalVideo.NeedsBrowser() }

// wrapExternal selects the wrapper matching the configured content types.
func wrapExternal(core *External) Driver {
	_, hasVideos := core.cfg.URLTemplates[types.ContentTypeVideos.String()]
	_, hasGifs := core.cfg.URLTemplates[types.ContentTypeGifs.String()]
	switch {
	case hasVideos && hasGifs:
		return externalBoth{externalVideo{core}, externalGif{core}}
	case hasGifs:
		return externalGif{core}
	default:
		return externalVideo{core}
	}
}

var (
	_ VideoSearcher = externalVideo{}
	_ GifSearcher   = externalGif{}
	_ VideoSearcher = externalBoth{}
	_ GifSearcher   = externalBoth{}
)

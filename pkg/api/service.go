// pkg/api/service.go

// Package api is the public entry point of the aggregation service: a
// Service type for embedding into other Go programs and an HTTP server
// exposing it.
package api

import (
	"context"
	"strings"
	"time"

	"github.com/valpere/MediaScrapexter/internal/assist"
	"github.com/valpere/MediaScrapexter/internal/drivers"
	"github.com/valpere/MediaScrapexter/internal/monitoring"
	"github.com/valpere/MediaScrapexter/internal/scraper"
	"github.com/valpere/MediaScrapexter/internal/utils"
	"github.com/valpere/MediaScrapexter/pkg/types"
)

// SearchRequest is one listing-page search.
type SearchRequest struct {
	Source      string            `json:"source"`
	Query       string            `json:"query"`
	ContentType types.ContentType `json:"content_type"`
	Page        int               `json:"page"`
}

// SearchResult carries the extracted items plus degradation signals the
// caller may want to surface. Warning is set when the upstream answered
// 200 but extraction produced nothing, the usual symptom of markup
// drift.
type SearchResult struct {
	Items    []types.MediaItem `json:"items"`
	Source   string            `json:"source"`
	Query    string            `json:"query"`
	Page     int               `json:"page"`
	Warning  string            `json:"warning,omitempty"`
	Duration time.Duration     `json:"-"`
}

// Service wires the registry, the fetch layers, and the assistant into
// the search operation. It is safe for concurrent use: drivers are
// resolved fresh per call and the fetchers are internally synchronized.
type Service struct {
	registry  *drivers.Registry
	fetcher   scraper.Fetcher
	rendered  scraper.Fetcher
	assistant *assist.Assistant
	metrics   *monitoring.MetricsManager
	log       utils.Logger
}

// ServiceOptions collects the Service dependencies. Registry and Fetcher
// are required; the rest degrade gracefully when absent.
type ServiceOptions struct {
	Registry  *drivers.Registry
	Fetcher   scraper.Fetcher
	Rendered  scraper.Fetcher
	Assistant *assist.Assistant
	Metrics   *monitoring.MetricsManager
	Logger    utils.Logger
}

// NewService assembles a service from its dependencies.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Registry == nil {
		return nil, utils.NewError(utils.ErrCodeInvalidConfig, "service requires a driver registry")
	}
	if opts.Fetcher == nil {
		return nil, utils.NewError(utils.ErrCodeInvalidConfig, "service requires a fetcher")
	}
	log := opts.Logger
	if log == nil {
		log = utils.NopLogger{}
	}
	return &Service{
		registry:  opts.Registry,
		fetcher:   opts.Fetcher,
		rendered:  opts.Rendered,
		assistant: opts.Assistant,
		metrics:   opts.Metrics,
		log:       log,
	}, nil
}

// Search runs one search: resolve the driver, verify the capability,
// build the page URL, fetch, and parse. A 404 answer and a parsed-empty
// page both return an empty, successful result; only transport failures
// and non-404 error statuses surface as errors.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()

	result := &SearchResult{
		Items:  []types.MediaItem{},
		Source: req.Source,
		Query:  req.Query,
		Page:   req.Page,
	}

	if !req.ContentType.IsValid() {
		s.recordSearch(req, "invalid", start)
		return nil, utils.NewErrorf(utils.ErrCodeInvalidConfig, "invalid content type %q", req.ContentType).
			WithUserMessage("content type must be videos or gifs")
	}

	driver, err := s.registry.ResolveFor(req.Source, req.ContentType)
	if err != nil {
		s.recordSearch(req, "rejected", start)
		return nil, err
	}

	searchURL, err := drivers.BuildSearchURL(driver, req.ContentType, req.Query, req.Page)
	if err != nil {
		s.recordSearch(req, "rejected", start)
		return nil, err
	}

	fetcher := s.fetcher
	if driver.NeedsBrowser() && s.rendered != nil {
		fetcher = s.rendered
	}

	fetchStart := time.Now()
	fetched, err := fetcher.Get(ctx, searchURL)
	if err != nil {
		s.recordSearch(req, "error", start)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordFetch(driver.Name(), time.Since(fetchStart).Seconds())
	}

	if fetched.NotFound() {
		// Upstream signals an empty result set with 404.
		s.log.Debugf("%s answered 404 for %q page %d", driver.Name(), req.Query, req.Page)
		s.recordSearch(req, "empty", start)
		result.Duration = time.Since(start)
		return result, nil
	}

	parser, err := scraper.NewHTMLParser(fetched.Body, driver.BaseURL())
	if err != nil {
		s.recordSearch(req, "error", start)
		return nil, utils.NewErrorf(utils.ErrCodeExtractionMiss, "failed to parse %s markup", driver.Name()).
			WithCause(err)
	}

	items, dropped, err := drivers.Parse(driver, parser, req.ContentType)
	if err != nil {
		s.recordSearch(req, "error", start)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordExtraction(driver.Name(), req.ContentType.String(), len(items), dropped)
	}

	if len(items) == 0 {
		warn := utils.NewErrorf(utils.ErrCodeStructureChanged,
			"%s returned a page but no items were extracted", driver.Name()).
			WithSeverity(utils.SeverityWarning)
		s.log.Warnf("%v (query=%q page=%d url=%s)", warn, req.Query, req.Page, searchURL)
		result.Warning = warn.Message
	}

	result.Items = items
	result.Duration = time.Since(start)
	s.recordSearch(req, "ok", start)
	return result, nil
}

// Suggest asks the selector-repair assistant for an updated parser for
// the named driver, fetching a fresh listing page as the HTML sample.
func (s *Service) Suggest(ctx context.Context, source string, ct types.ContentType, query string) (*assist.Suggestion, error) {
	if s.assistant == nil {
		return nil, utils.NewError(utils.ErrCodeAssistFailed, "assistant is not configured").
			WithUserMessage("the suggestion backend is not configured")
	}

	driver, err := s.registry.ResolveFor(source, ct)
	if err != nil {
		return nil, err
	}

	sampleQuery := strings.TrimSpace(query)
	if sampleQuery == "" {
		sampleQuery = "test"
	}
	sampleURL, err := drivers.BuildSearchURL(driver, ct, sampleQuery, driver.FirstPageIndex())
	if err != nil {
		return nil, err
	}

	fetched, err := s.fetcher.Get(ctx, sampleURL)
	if err != nil {
		s.recordAssist(driver.Name(), "fetch_error")
		return nil, err
	}
	if fetched.NotFound() || fetched.Body == "" {
		s.recordAssist(driver.Name(), "no_sample")
		return nil, utils.NewErrorf(utils.ErrCodeAssistFailed,
			"no sample page available from %s for query %q", driver.Name(), sampleQuery)
	}

	suggestion, err := s.assistant.Suggest(ctx, driver.Name(), ct, fetched.Body)
	if err != nil {
		s.recordAssist(driver.Name(), "error")
		return nil, err
	}
	s.recordAssist(driver.Name(), "ok")
	return suggestion, nil
}

// Sources returns discovery metadata for the registered drivers.
func (s *Service) Sources() []drivers.SourceInfo {
	return s.registry.Sources()
}

func (s *Service) recordSearch(req SearchRequest, status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSearch(strings.ToLower(req.Source), req.ContentType.String(), status, time.Since(start).Seconds())
}

func (s *Service) recordAssist(driver, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordAssist(driver, status)
}

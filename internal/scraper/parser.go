// internal/scraper/parser.go

// Package scraper implements the adaptive HTML extraction core: document
// parsing, selector fallback chains, and the URL/ID/preview resolution
// heuristics every site driver composes into MediaItem records.
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser wraps a parsed document together with the site base URL used
// for resolving relative references. A parser is scoped to a single parse
// call and discarded afterwards.
type HTMLParser struct {
	document *goquery.Document
	baseURL  string
}

// NewHTMLParser parses raw markup into a queryable document. Garbled or
// empty input still yields a valid (empty) document; goquery only fails on
// reader errors, so zero-result pages degrade gracefully downstream.
func NewHTMLParser(markup, baseURL string) (*HTMLParser, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLParser{
		document: doc,
		baseURL:  baseURL,
	}, nil
}

// Document exposes the underlying goquery document for driver selectors.
func (hp *HTMLParser) Document() *goquery.Document {
	return hp.document
}

// BaseURL returns the base URL all relative references resolve against.
func (hp *HTMLParser) BaseURL() string {
	return hp.baseURL
}

// FindContainers returns the item containers for the first selector in the
// fallback list that matches anything. A site may use different markup for
// a pure listing vs a mixed listing, so callers pass every known container
// shape in preference order.
func (hp *HTMLParser) FindContainers(selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}
		found := hp.document.Find(sel)
		if found.Length() > 0 {
			return found
		}
	}
	return hp.document.Selection.Slice(0, 0)
}

// internal/scraper/extractor.go
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Locator is one candidate in a selector fallback chain: where to look
// within an item container and what to read there. An empty Selector means
// the container element itself; an empty Attr means the element text.
type Locator struct {
	Selector string
	Attr     string
}

// Chain is an ordered list of extraction candidates for one logical field.
// Candidates are evaluated in order and the first non-empty trimmed value
// wins. Ordering is a correctness invariant, not a style choice: lazy-load
// attributes must come before eager src, or placeholder images silently
// replace real thumbnails.
type Chain []Locator

// Extract evaluates the chain against an item container and returns the
// first non-empty match, normalized to NFC and trimmed.
func (c Chain) Extract(container *goquery.Selection) string {
	for _, loc := range c {
		if value := loc.extract(container); value != "" {
			return value
		}
	}
	return ""
}

// ExtractAll evaluates the chain and returns every non-empty candidate
// value in chain order. Used by the preview resolver, which needs the full
// precedence list rather than just the winner.
func (c Chain) ExtractAll(container *goquery.Selection) []string {
	var values []string
	for _, loc := range c {
		if value := loc.extract(container); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func (loc Locator) extract(container *goquery.Selection) string {
	target := container
	if loc.Selector != "" {
		target = container.Find(loc.Selector)
		if target.Length() == 0 {
			return ""
		}
	}

	if loc.Attr != "" {
		value, exists := target.First().Attr(loc.Attr)
		if !exists {
			return ""
		}
		return CleanText(value)
	}
	return CleanText(target.First().Text())
}

// CleanText trims whitespace and normalizes the value to NFC so visually
// identical titles from different sites compare equal.
func CleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// TitleChain builds the canonical title fallback order: explicit title
// attribute on the primary link, link text, a generic title/name class,
// image alt text. Callers synthesize a placeholder only when the whole
// chain comes up empty.
func TitleChain(linkSelector string) Chain {
	return Chain{
		{Selector: linkSelector, Attr: "title"},
		{Selector: linkSelector},
		{Selector: ".title"},
		{Selector: ".name"},
		{Selector: "img", Attr: "alt"},
	}
}

// ThumbnailChain builds the canonical thumbnail fallback order. Lazy-load
// attributes come first: many sites serve a placeholder in src until
// scroll-triggered loading fires.
func ThumbnailChain(imgSelector string) Chain {
	return Chain{
		{Selector: imgSelector, Attr: "data-src"},
		{Selector: imgSelector, Attr: "data-original"},
		{Selector: imgSelector, Attr: "data-lazy-src"},
		{Selector: imgSelector, Attr: "src"},
	}
}

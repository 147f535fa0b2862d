// internal/scraper/urlresolve.go
package scraper

import (
	"net/url"
	"strings"
)

// ResolveURL normalizes any href/src form against a site base URL and
// returns the absolute result, or "" when the candidate cannot be
// resolved. It never panics and performs no I/O.
//
// Rules, in order: empty input resolves to ""; data: URIs pass through
// unchanged; protocol-relative references get an https prefix; already
// absolute http(s) URLs pass through unchanged; everything else resolves
// relative to the base URL.
func ResolveURL(candidate, baseURL string) string {
	c := strings.TrimSpace(candidate)
	if c == "" {
		return ""
	}

	if strings.HasPrefix(c, "data:") {
		return c
	}

	// Literal whitespace never appears in a real URL; treating it as
	// malformed here beats percent-encoding garbage into the output.
	if strings.ContainsAny(c, " \t\r\n") {
		return ""
	}

	if strings.HasPrefix(c, "//") {
		return "https:" + c
	}

	lower := strings.ToLower(c)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return c
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return ""
	}
	ref, err := url.Parse(c)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(ref)
	if !resolved.IsAbs() || resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// internal/scraper/idextract.go
package scraper

import (
	"net/url"
	"regexp"
	"strings"
)

// markerPathID matches a trailing numeric run of at least six digits in a
// path segment that follows one of the known listing markers. Sites embed
// the upstream database id either directly after the marker or at the end
// of a slug ("/videos/cute-cat-1234567").
var markerPathID = regexp.MustCompile(`/(?:videos?|photos?|gifs?|embed|watch|view)/[^?#]*?(\d{6,})(?:[/._-][^/]*)?$`)

// numericSegment matches a path segment that is purely a long numeric run.
var numericSegment = regexp.MustCompile(`^\d{6,}$`)

// ExtractID derives a stable per-item identifier. Precedence: an explicit
// identifier attribute from the item container, then marker-anchored
// numeric mining of the resolved page path, then a reverse scan of path
// segments for the first long numeric token. Returns "" when nothing
// matches; callers drop the item rather than fabricate an id.
func ExtractID(explicit, pageURL string) string {
	if id := CleanText(explicit); id != "" {
		return id
	}
	return mineURLForID(pageURL)
}

func mineURLForID(pageURL string) string {
	if pageURL == "" {
		return ""
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	path := parsed.Path
	if path == "" {
		return ""
	}

	if m := markerPathID.FindStringSubmatch(path); m != nil {
		return m[1]
	}

	// Last resort: walk the path segments back to front and take the
	// first one that is a long numeric run.
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if numericSegment.MatchString(segments[i]) {
			return segments[i]
		}
	}
	return ""
}

// internal/scraper/preview.go
package scraper

import (
	"net/url"
	"path"
	"strings"
)

// animatedExtensions is the allow-list of file extensions accepted as an
// animated preview asset. Anything else is dropped rather than exposing a
// broken or static asset as a hover preview.
var animatedExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".m4v":  true,
	".mov":  true,
	".gif":  true,
	".apng": true,
	".webp": true,
}

// animatedImageExtensions are the animated formats a static thumbnail URL
// may itself use; legacy sites without a dedicated preview attribute serve
// the animation straight in the thumbnail slot.
var animatedImageExtensions = map[string]bool{
	".gif":  true,
	".apng": true,
	".webp": true,
}

// ResolvePreview picks the best animated preview asset from candidates
// supplied in per-driver precedence order. Each candidate is resolved
// against the base URL and validated; the first valid one wins. Returns ""
// when no candidate survives validation. Preview absence is never an item
// drop condition by itself.
func ResolvePreview(candidates []string, baseURL string) string {
	for _, candidate := range candidates {
		resolved := ResolveURL(candidate, baseURL)
		if resolved == "" {
			continue
		}
		if IsAnimatedAsset(resolved) {
			return resolved
		}
	}
	return ""
}

// IsAnimatedAsset reports whether the URL plausibly points at an animated
// or video asset: a known extension, or an explicit "preview" marker in
// the path for sites that serve extensionless preview endpoints.
func IsAnimatedAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if animatedExtensions[ext] {
		return true
	}
	return strings.Contains(strings.ToLower(parsed.Path), "preview")
}

// ThumbnailAsPreview applies the legacy fallback: when a driver exposes no
// dedicated preview and the static thumbnail path is itself an animated
// image format, the thumbnail doubles as the preview.
func ThumbnailAsPreview(thumbnailURL string) string {
	parsed, err := url.Parse(thumbnailURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	if animatedImageExtensions[ext] {
		return thumbnailURL
	}
	return ""
}

// pkg/types/types.go
package types

import (
	"fmt"
	"net/url"
	"strings"
)

// ContentType represents the category of media a search targets
type ContentType string

const (
	ContentTypeVideos ContentType = "videos"
	ContentTypeGifs   ContentType = "gifs"
)

// ValidContentTypes returns all valid content type values
func ValidContentTypes() []ContentType {
	return []ContentType{ContentTypeVideos, ContentTypeGifs}
}

// IsValid checks if the content type is a valid value
func (ct ContentType) IsValid() bool {
	for _, valid := range ValidContentTypes() {
		if ct == valid {
			return true
		}
	}
	return false
}

// String returns the string representation of the content type
func (ct ContentType) String() string {
	return string(ct)
}

// ParseContentType converts a raw string into a ContentType
func ParseContentType(raw string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(raw)))
	if !ct.IsValid() {
		return "", fmt.Errorf("invalid content type %q (expected one of %v)", raw, ValidContentTypes())
	}
	return ct, nil
}

// MediaItem is the normalized output record every driver must produce.
// Instances are created once per parse call and never mutated afterwards;
// ownership passes to the caller.
type MediaItem struct {
	// ID is unique within one (source, content type) result page
	ID string `json:"id"`

	// Title is never empty; a synthesized placeholder is allowed but a
	// blank title is not
	Title string `json:"title"`

	// URL is the absolute, resolvable page URL for the item
	URL string `json:"url"`

	// Thumbnail is an absolute static image URL, when available
	Thumbnail string `json:"thumbnail,omitempty"`

	// Duration is human-readable duration text; meaningful for videos only
	Duration string `json:"duration,omitempty"`

	// PreviewVideo is an absolute URL to an animated preview asset,
	// format-validated when present
	PreviewVideo string `json:"preview_video,omitempty"`

	// Source is the originating driver's canonical display name
	Source string `json:"source"`

	// Type is the content category of this item
	Type ContentType `json:"type"`
}

// Validate checks the MediaItem against the schema invariants
func (m *MediaItem) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("media item id cannot be empty")
	}
	if m.Title == "" {
		return fmt.Errorf("media item title cannot be empty")
	}
	if m.URL == "" {
		return fmt.Errorf("media item url cannot be empty")
	}
	parsed, err := url.Parse(m.URL)
	if err != nil {
		return fmt.Errorf("media item url is not parseable: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("media item url must be fully qualified, got %q", m.URL)
	}
	if m.Source == "" {
		return fmt.Errorf("media item source cannot be empty")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("media item type %q is not valid", m.Type)
	}
	return nil
}

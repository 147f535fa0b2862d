// internal/scraper/urlresolve_test.go
package scraper

import "testing"

func TestResolveURL(t *testing.T) {
	base := "https://example.com/videos"

	tests := []struct {
		name      string
		candidate string
		base      string
		expected  string
	}{
		{
			name:      "empty candidate",
			candidate: "",
			base:      base,
			expected:  "",
		},
		{
			name:      "whitespace only candidate",
			candidate: "   ",
			base:      base,
			expected:  "",
		},
		{
			name:      "absolute http passes through",
			candidate: "http://cdn.example.com/a.jpg",
			base:      base,
			expected:  "http://cdn.example.com/a.jpg",
		},
		{
			name:      "absolute https passes through",
			candidate: "https://cdn.example.com/a.jpg",
			base:      base,
			expected:  "https://cdn.example.com/a.jpg",
		},
		{
			name:      "protocol relative gets https",
			candidate: "//cdn.example.com/thumbs/1.jpg",
			base:      base,
			expected:  "https://cdn.example.com/thumbs/1.jpg",
		},
		{
			name:      "data uri passes through unchanged",
			candidate: "data:image/gif;base64,R0lGOD",
			base:      base,
			expected:  "data:image/gif;base64,R0lGOD",
		},
		{
			name:      "root relative resolves against base host",
			candidate: "/watch/1234567",
			base:      base,
			expected:  "https://example.com/watch/1234567",
		},
		{
			name:      "relative resolves against base path",
			candidate: "clip-42.html",
			base:      "https://example.com/list/",
			expected:  "https://example.com/list/clip-42.html",
		},
		{
			name:      "embedded whitespace is malformed",
			candidate: "not a url###",
			base:      base,
			expected:  "",
		},
		{
			name:      "relative with empty base",
			candidate: "/watch/1",
			base:      "",
			expected:  "",
		},
		{
			name:      "relative with malformed base",
			candidate: "/watch/1",
			base:      "://broken",
			expected:  "",
		},
		{
			name:      "query and fragment survive",
			candidate: "/v?id=99#t=10",
			base:      base,
			expected:  "https://example.com/v?id=99#t=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveURL(tt.candidate, tt.base)
			if got != tt.expected {
				t.Errorf("ResolveURL(%q, %q) = %q, expected %q", tt.candidate, tt.base, got, tt.expected)
			}
		})
	}
}

func TestResolveURLNeverPanics(t *testing.T) {
	inputs := []string{
		"%%%", "ht!tp://x", "\x00", "////", ":", "data:",
	}
	for _, in := range inputs {
		_ = ResolveURL(in, "https://example.com")
		_ = ResolveURL(in, in)
	}
}

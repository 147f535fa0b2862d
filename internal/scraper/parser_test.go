// internal/scraper/parser_test.go
package scraper

import "testing"

func TestNewHTMLParser(t *testing.T) {
	parser, err := NewHTMLParser(`<html><body><div class="a">x</div></body></html>`, "https://example.com")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	if parser.BaseURL() != "https://example.com" {
		t.Errorf("unexpected base URL %q", parser.BaseURL())
	}
	if parser.Document() == nil {
		t.Fatal("document should not be nil")
	}
}

func TestNewHTMLParserGarbledInput(t *testing.T) {
	// Garbled markup still parses into a document; extraction just finds
	// nothing.
	parser, err := NewHTMLParser(`<<<>>>not html at all &&&`, "https://example.com")
	if err != nil {
		t.Fatalf("garbled input should not fail parsing: %v", err)
	}
	if n := parser.FindContainers([]string{".item"}).Length(); n != 0 {
		t.Errorf("expected zero containers, got %d", n)
	}
}

func TestFindContainers(t *testing.T) {
	html := `
		<div class="primary"><div class="card">1</div><div class="card">2</div></div>
		<div class="secondary"><div class="cell">3</div></div>`
	parser, err := NewHTMLParser(html, "https://example.com")
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}

	tests := []struct {
		name      string
		selectors []string
		expected  int
	}{
		{"first selector matches", []string{".primary .card", ".secondary .cell"}, 2},
		{"falls back to second selector", []string{".missing", ".secondary .cell"}, 1},
		{"nothing matches", []string{".missing", ".also-missing"}, 0},
		{"empty selector skipped", []string{"", ".secondary .cell"}, 1},
		{"no selectors", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.FindContainers(tt.selectors).Length(); got != tt.expected {
				t.Errorf("expected %d containers, got %d", tt.expected, got)
			}
		})
	}
}

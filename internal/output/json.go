// internal/output/json.go
package output

import (
	"encoding/json"
	"os"

	"github.com/valpere/MediaScrapexter/pkg/types"
)

// JSONWriter writes items as a pretty-printed JSON array.
type JSONWriter struct {
	file *os.File
}

// NewJSONWriter creates a JSON writer targeting filename.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{file: file}, nil
}

// Write encodes the items. An empty batch still produces a valid empty
// array so downstream tooling never sees "null".
func (w *JSONWriter) Write(items []types.MediaItem) error {
	if items == nil {
		items = []types.MediaItem{}
	}
	encoder := json.NewEncoder(w.file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

// Close closes the underlying file.
func (w *JSONWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

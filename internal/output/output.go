// internal/output/output.go

// Package output serializes search results for the command line tool.
// The server never persists results; export exists so a CLI run can be
// piped into files for inspection.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/valpere/MediaScrapexter/pkg/types"
)

// Format identifies an export format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatExcel, "excel":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// FormatForPath guesses the format from a file extension, defaulting to
// JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatExcel
	default:
		return FormatJSON
	}
}

// Writer exports a batch of media items.
type Writer interface {
	Write(items []types.MediaItem) error
	Close() error
}

// NewWriter opens a writer for the given format and destination file.
func NewWriter(format Format, path string) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(path)
	case FormatCSV:
		return NewCSVWriter(path)
	case FormatExcel:
		return NewExcelWriter(path)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile exports items to path in one call, picking the format from
// the file extension.
func WriteFile(path string, items []types.MediaItem) error {
	writer, err := NewWriter(FormatForPath(path), path)
	if err != nil {
		return err
	}
	if err := writer.Write(items); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// itemHeaders is the column order shared by the tabular writers.
func itemHeaders() []string {
	return []string{"id", "title", "url", "thumbnail", "duration", "preview_video", "source", "type"}
}

func itemRow(item types.MediaItem) []string {
	return []string{
		item.ID,
		item.Title,
		item.URL,
		item.Thumbnail,
		item.Duration,
		item.PreviewVideo,
		item.Source,
		item.Type.String(),
	}
}

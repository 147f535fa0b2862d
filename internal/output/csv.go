// internal/output/csv.go
package output

import (
	"encoding/csv"
	"os"

	"github.com/valpere/MediaScrapexter/pkg/types"
)

// CSVWriter writes items as comma-separated rows with a header line.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates a CSV writer targeting filename.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{
		file:   file,
		writer: csv.NewWriter(file),
	}, nil
}

// Write writes the header followed by one row per item.
func (w *CSVWriter) Write(items []types.MediaItem) error {
	if err := w.writer.Write(itemHeaders()); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.writer.Write(itemRow(item)); err != nil {
			return err
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes pending rows and closes the file.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}
	w.writer.Flush()
	flushErr := w.writer.Error()
	closeErr := w.file.Close()
	w.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

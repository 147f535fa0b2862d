// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/MediaScrapexter/pkg/types"
)

const excelSheetName = "Results"

// ExcelWriter writes items as an XLSX workbook with a single sheet, a
// frozen header row, and an auto filter.
type ExcelWriter struct {
	file *excelize.File
	path string
}

// NewExcelWriter creates an Excel writer targeting path.
func NewExcelWriter(path string) (*ExcelWriter, error) {
	file := excelize.NewFile()
	index, err := file.NewSheet(excelSheetName)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	return &ExcelWriter{file: file, path: path}, nil
}

// Write populates the sheet with a header row and one row per item.
func (w *ExcelWriter) Write(items []types.MediaItem) error {
	headers := itemHeaders()
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(excelSheetName, cell, header); err != nil {
			return err
		}
	}

	for rowIdx, item := range items {
		for col, value := range itemRow(item) {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := w.file.SetCellValue(excelSheetName, cell, value); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.CoordinatesToCellName(len(headers), len(items)+1)
	if err != nil {
		return err
	}
	if err := w.file.AutoFilter(excelSheetName, "A1:"+lastCol, nil); err != nil {
		return err
	}
	return w.file.SetPanes(excelSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// Close saves the workbook to disk and releases it.
func (w *ExcelWriter) Close() error {
	if w.file == nil {
		return nil
	}
	saveErr := w.file.SaveAs(w.path)
	closeErr := w.file.Close()
	w.file = nil
	if saveErr != nil {
		return fmt.Errorf("failed to save workbook: %w", saveErr)
	}
	return closeErr
}

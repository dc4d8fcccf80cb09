package core

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// parseSpreadsheet reads the first worksheet of an .xlsx workbook. The
// first non-empty row is the header; blank rows below it are skipped and
// short rows are padded so the table is rectangular.
func parseSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var records [][]string
	width := 0
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if len(row) > width {
			width = len(row)
		}
		records = append(records, row)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	for i, row := range records {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			records[i] = padded
		}
	}

	slog.Debug("spreadsheet parsed",
		"sheet", sheet,
		"sheets", len(sheets),
		"rows", len(records)-1,
		"cols", width,
	)
	return records, nil
}

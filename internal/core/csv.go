package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// parseCSV reads delimited text into records. The input is BOM-stripped
// and UTF-8 sanitised first; every row must have as many fields as the
// header.
func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(WrapForParsing(r))
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return records, nil
}

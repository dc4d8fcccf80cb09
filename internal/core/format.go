package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the parser a file is routed to. It is resolved once from the
// declared file name and then matched exhaustively.
type Format int

const (
	FormatCSV Format = iota + 1
	FormatSpreadsheet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatSpreadsheet:
		return "xlsx"
	default:
		return "unknown"
	}
}

// SupportedExtensions lists the upload extensions accepted by the Loader,
// in the form used by the HTML accept attribute.
var SupportedExtensions = []string{".csv", ".xlsx"}

// FormatFromFilename maps a declared file name to its Format.
// Matching is on the extension only and is case-insensitive.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatSpreadsheet, nil
	case "":
		return 0, NewLoadError(KindUnsupportedFormat, name, fmt.Errorf("%w: file has no extension", ErrUnsupportedFormat))
	default:
		return 0, NewLoadError(KindUnsupportedFormat, name, fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, ext))
	}
}

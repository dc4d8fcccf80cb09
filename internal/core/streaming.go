package core

// streaming.go normalises raw upload bytes before they reach a parser.
//
// Files exported from spreadsheet tools commonly start with a byte order
// mark and occasionally contain bytes that are not valid UTF-8. Both are
// handled on the fly without buffering the whole file:
//
//   - a UTF-8 BOM is dropped; a UTF-16 BOM switches decoding to UTF-16
//   - invalid UTF-8 sequences become U+FFFD

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WrapForParsing returns r with BOM handling and UTF-8 sanitisation applied.
func WrapForParsing(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// countingReader tracks how many bytes have passed through it so the
// Loader can enforce the upload size limit without trusting headers.
type countingReader struct {
	r     io.Reader
	n     int64
	limit int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.limit > 0 && c.n > c.limit {
		return n, ErrFileTooLarge
	}
	return n, err
}

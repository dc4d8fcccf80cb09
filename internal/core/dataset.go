package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ColumnKind is the inferred kind of a Dataset column.
type ColumnKind string

const (
	ColumnNumeric     ColumnKind = "numeric"
	ColumnBoolean     ColumnKind = "boolean"
	ColumnCategorical ColumnKind = "categorical"
	ColumnText        ColumnKind = "text"
)

// IsNumeric reports whether the column gets numeric statistics.
func (k ColumnKind) IsNumeric() bool {
	return k == ColumnNumeric
}

// categoricalMaxUnique caps how many distinct values a string column may
// have and still be reported as categorical rather than free text.
const categoricalMaxUnique = 50

// naValues are the cell values treated as missing, matching what common
// spreadsheet and dataframe tools write for nulls.
var naValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Column describes one column of a Dataset.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Source identifies where a Dataset came from.
type Source struct {
	Name    string    `json:"name"`
	Format  Format    `json:"-"`
	Example ExampleID `json:"example,omitempty"`
}

// IsExample reports whether the Dataset came from the example repository.
func (s Source) IsExample() bool {
	return s.Example != ExampleNone
}

// Dataset is an immutable in-memory table with ordered, named columns.
// It is only ever constructed fully parsed; there is no partial Dataset.
type Dataset struct {
	frame    dataframe.DataFrame
	columns  []Column
	source   Source
	loadedAt time.Time
}

// NewDataset builds a Dataset from records whose first row is the header.
// Column types are inferred from the cell values. A header without data rows
// gives an empty Dataset with every column present.
func NewDataset(records [][]string, src Source) (*Dataset, error) {
	records, err := normaliseRecords(records)
	if err != nil {
		return nil, err
	}

	var df dataframe.DataFrame
	if len(records) == 1 {
		df = emptyFrame(records[0])
	} else {
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.WithTypes(detectTypes(records)),
			dataframe.NaNValues(naValues),
		)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("build table: %w", df.Err)
	}

	ds := &Dataset{
		frame:    df,
		source:   src,
		loadedAt: time.Now(),
	}
	ds.columns = make([]Column, df.Ncol())
	for i, name := range df.Names() {
		ds.columns[i] = Column{Name: name, Kind: inferKind(df.Col(name))}
	}
	return ds, nil
}

// emptyFrame holds one zero-length string column per header name.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

// Rows returns the number of data rows (header excluded).
func (d *Dataset) Rows() int {
	return d.frame.Nrow()
}

// Cols returns the number of columns.
func (d *Dataset) Cols() int {
	return d.frame.Ncol()
}

// Columns returns the columns in original order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the header in original order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Source returns where the Dataset was loaded from.
func (d *Dataset) Source() Source {
	return d.source
}

// LoadedAt returns when the Dataset finished parsing.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Head returns up to n rows as display strings, in original column order.
// Missing values are rendered as "NaN".
func (d *Dataset) Head(n int) [][]string {
	if n > d.Rows() {
		n = d.Rows()
	}
	if n <= 0 {
		return [][]string{}
	}

	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(d.columns))
		for j, c := range d.columns {
			row[j] = formatElement(d.frame.Col(c.Name).Elem(i))
		}
		rows[i] = row
	}
	return rows
}

// series returns the backing column for name.
func (d *Dataset) series(name string) series.Series {
	return d.frame.Col(name)
}

// normaliseRecords validates the header and row widths and fills blank or
// repeated column names.
func normaliseRecords(records [][]string) ([][]string, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := records[0]
	if len(header) == 0 || isEmptyRow(header) {
		return nil, ErrMissingHeader
	}

	width := len(header)
	for i, row := range records[1:] {
		if len(row) != width {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", i+2, width, len(row))
		}
	}

	out := make([][]string, len(records))
	out[0] = uniqueHeader(header)
	for i, row := range records[1:] {
		cells := make([]string, width)
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		out[i+1] = cells
	}
	return out, nil
}

// uniqueHeader names blank columns "Unnamed: <i>" and suffixes repeats
// with ".1", ".2", ... so every column is addressable by name.
func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

// detectTypes picks a series type per column of records (header first).
// A column is boolean only when every value is a true/false spelling, so
// 1/0 mixed with true stays text. A column with rows but no values is float,
// the way missing numbers are read elsewhere.
func detectTypes(records [][]string) map[string]series.Type {
	header := records[0]
	types := make(map[string]series.Type, len(header))
	for j, name := range header {
		var hasInt, hasFloat, hasBool, hasString bool
		for _, row := range records[1:] {
			cell := row[j]
			if isNA(cell) {
				continue
			}
			switch {
			case isInt(cell):
				hasInt = true
			case isFloat(cell):
				hasFloat = true
			case isBoolSpelling(cell):
				hasBool = true
			default:
				hasString = true
			}
		}

		switch {
		case hasString, hasBool && (hasInt || hasFloat):
			types[name] = series.String
		case hasBool:
			types[name] = series.Bool
		case hasFloat:
			types[name] = series.Float
		case hasInt:
			types[name] = series.Int
		default:
			types[name] = series.Float
		}
	}
	return types
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBoolSpelling(s string) bool {
	switch s {
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return true
	}
	return false
}

func isNA(s string) bool {
	for _, na := range naValues {
		if s == na {
			return true
		}
	}
	return false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// inferKind maps the detected series type to a ColumnKind. String columns
// with few distinct values relative to their size are categorical.
func inferKind(s series.Series) ColumnKind {
	switch s.Type() {
	case series.Int, series.Float:
		return ColumnNumeric
	case series.Bool:
		return ColumnBoolean
	}

	count := 0
	distinct := make(map[string]struct{})
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		count++
		distinct[e.String()] = struct{}{}
	}
	if count > 0 && len(distinct) <= categoricalMaxUnique && len(distinct)*2 <= count {
		return ColumnCategorical
	}
	return ColumnText
}

// formatElement renders one cell for display.
func formatElement(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	switch e.Type() {
	case series.Float:
		return formatFloat(e.Float())
	case series.Bool:
		if b, err := e.Bool(); err == nil {
			if b {
				return "True"
			}
			return "False"
		}
	}
	return e.String()
}

package core

import (
	"strconv"
	"time"
)

// PreviewRows is the number of head rows shown by default.
const PreviewRows = 5

// EmptyPrompt is shown when a session has no dataset.
const EmptyPrompt = "Please upload a dataset or select an example dataset to get started."

// TableView is a display-ready grid: an optional row index, a header and
// string cells.
type TableView struct {
	Index   []string   `json:"index"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Preview is what the dashboard shows for a session.
type Preview struct {
	Loaded   bool      `json:"loaded"`
	Message  string    `json:"message,omitempty"`
	Source   *Source   `json:"source,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitzero"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	Columns  []Column  `json:"columns,omitempty"`
	Head     TableView `json:"head"`
	Stats    TableView `json:"stats"`
	Summary  *Summary  `json:"summary,omitempty"`
}

// RenderPreview builds the preview of ds with up to n head rows. A nil ds
// yields the empty prompt. It only reads ds.
func RenderPreview(ds *Dataset, n int) Preview {
	if ds == nil {
		return Preview{
			Message: EmptyPrompt,
			Head:    TableView{Index: []string{}, Columns: []string{}, Rows: [][]string{}},
			Stats:   TableView{Index: []string{}, Columns: []string{}, Rows: [][]string{}},
		}
	}
	if n <= 0 {
		n = PreviewRows
	}

	rows := ds.Head(n)
	index := make([]string, len(rows))
	for i := range rows {
		index[i] = strconv.Itoa(i)
	}

	summary := Describe(ds)
	src := ds.Source()
	return Preview{
		Loaded:   true,
		Source:   &src,
		LoadedAt: ds.LoadedAt(),
		Rows:     ds.Rows(),
		Cols:     ds.Cols(),
		Columns:  ds.Columns(),
		Head:     TableView{Index: index, Columns: ds.ColumnNames(), Rows: rows},
		Stats:    summary.Table(),
		Summary:  &summary,
	}
}

package core

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// Statistic names one row of the summary table.
type Statistic string

const (
	StatCount  Statistic = "count"
	StatUnique Statistic = "unique"
	StatTop    Statistic = "top"
	StatFreq   Statistic = "freq"
	StatMean   Statistic = "mean"
	StatStd    Statistic = "std"
	StatMin    Statistic = "min"
	StatQ1     Statistic = "25%"
	StatMedian Statistic = "50%"
	StatQ3     Statistic = "75%"
	StatMax    Statistic = "max"
)

var (
	statisticOrder = []Statistic{
		StatCount, StatUnique, StatTop, StatFreq,
		StatMean, StatStd, StatMin, StatQ1, StatMedian, StatQ3, StatMax,
	}
	categoryStats = []Statistic{StatUnique, StatTop, StatFreq}
	numericStats  = []Statistic{StatMean, StatStd, StatMin, StatQ1, StatMedian, StatQ3, StatMax}
)

// ColumnSummary holds the descriptive statistics of one column. Pointer
// fields are nil when the statistic does not apply or is undefined, for
// example std of a single value.
type ColumnSummary struct {
	Name  string     `json:"name"`
	Kind  ColumnKind `json:"kind"`
	Count int        `json:"count"`

	Unique *int    `json:"unique,omitempty"`
	Top    *string `json:"top,omitempty"`
	Freq   *int    `json:"freq,omitempty"`

	Mean   *float64 `json:"mean,omitempty"`
	Std    *float64 `json:"std,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Q1     *float64 `json:"q1,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Q3     *float64 `json:"q3,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Value renders one statistic for display. Missing values render as "NaN".
func (c ColumnSummary) Value(stat Statistic) string {
	switch stat {
	case StatCount:
		return strconv.Itoa(c.Count)
	case StatUnique:
		return formatIntPtr(c.Unique)
	case StatTop:
		if c.Top == nil {
			return "NaN"
		}
		return *c.Top
	case StatFreq:
		return formatIntPtr(c.Freq)
	case StatMean:
		return formatFloatPtr(c.Mean)
	case StatStd:
		return formatFloatPtr(c.Std)
	case StatMin:
		return formatFloatPtr(c.Min)
	case StatQ1:
		return formatFloatPtr(c.Q1)
	case StatMedian:
		return formatFloatPtr(c.Median)
	case StatQ3:
		return formatFloatPtr(c.Q3)
	case StatMax:
		return formatFloatPtr(c.Max)
	}
	return "NaN"
}

// statFloat encodes a statistic as a JSON number, or as the display string
// when it is not finite.
type statFloat float64

func (f statFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(formatFloat(v))
	}
	return json.Marshal(v)
}

// MarshalJSON writes non-finite numeric statistics as "inf", "-inf" or
// "NaN" since JSON has no literal for them.
func (c ColumnSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string     `json:"name"`
		Kind  ColumnKind `json:"kind"`
		Count int        `json:"count"`

		Unique *int    `json:"unique,omitempty"`
		Top    *string `json:"top,omitempty"`
		Freq   *int    `json:"freq,omitempty"`

		Mean   *statFloat `json:"mean,omitempty"`
		Std    *statFloat `json:"std,omitempty"`
		Min    *statFloat `json:"min,omitempty"`
		Q1     *statFloat `json:"q1,omitempty"`
		Median *statFloat `json:"median,omitempty"`
		Q3     *statFloat `json:"q3,omitempty"`
		Max    *statFloat `json:"max,omitempty"`
	}{
		Name: c.Name, Kind: c.Kind, Count: c.Count,
		Unique: c.Unique, Top: c.Top, Freq: c.Freq,
		Mean:   (*statFloat)(c.Mean),
		Std:    (*statFloat)(c.Std),
		Min:    (*statFloat)(c.Min),
		Q1:     (*statFloat)(c.Q1),
		Median: (*statFloat)(c.Median),
		Q3:     (*statFloat)(c.Q3),
		Max:    (*statFloat)(c.Max),
	})
}

// Summary is the statistics table for a Dataset. Stats lists the rows that
// apply to at least one column, in display order.
type Summary struct {
	Columns []ColumnSummary `json:"columns"`
	Stats   []Statistic     `json:"stats"`
}

// Table lays the summary out with one row per statistic and one column per
// dataset column.
func (s Summary) Table() TableView {
	tv := TableView{
		Index:   make([]string, len(s.Stats)),
		Columns: make([]string, len(s.Columns)),
		Rows:    make([][]string, len(s.Stats)),
	}
	for j, c := range s.Columns {
		tv.Columns[j] = c.Name
	}
	for i, stat := range s.Stats {
		tv.Index[i] = string(stat)
		row := make([]string, len(s.Columns))
		for j, c := range s.Columns {
			row[j] = c.Value(stat)
		}
		tv.Rows[i] = row
	}
	return tv
}

// Describe computes per-column statistics over every column of ds.
// Numeric columns get mean, std, min, quartiles and max; all other kinds get
// unique, top and freq. count is the number of non-null values.
func Describe(ds *Dataset) Summary {
	if ds == nil {
		return Summary{Columns: []ColumnSummary{}, Stats: []Statistic{}}
	}

	var hasNumeric, hasCategory bool
	cols := make([]ColumnSummary, 0, ds.Cols())
	for _, c := range ds.columns {
		var cs ColumnSummary
		if c.Kind.IsNumeric() {
			cs = describeNumeric(ds, c)
			hasNumeric = true
		} else {
			cs = describeCategory(ds, c)
			hasCategory = true
		}
		cols = append(cols, cs)
	}

	out := Summary{Columns: cols, Stats: []Statistic{StatCount}}
	if hasCategory {
		out.Stats = append(out.Stats, categoryStats...)
	}
	if hasNumeric {
		out.Stats = append(out.Stats, numericStats...)
	}
	sort.SliceStable(out.Stats, func(i, j int) bool {
		return statIndex(out.Stats[i]) < statIndex(out.Stats[j])
	})
	return out
}

func describeNumeric(ds *Dataset, c Column) ColumnSummary {
	s := ds.series(c.Name)
	values := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.Float()
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}

	cs := ColumnSummary{Name: c.Name, Kind: c.Kind, Count: len(values)}
	if len(values) == 0 {
		return cs
	}

	data := stats.LoadRawData(values)
	if mean, err := stats.Mean(data); err == nil {
		cs.Mean = &mean
	}
	if len(values) > 1 {
		if std, err := stats.StandardDeviationSample(data); err == nil {
			cs.Std = &std
		}
	}
	if lo, err := stats.Min(data); err == nil {
		cs.Min = &lo
	}
	if hi, err := stats.Max(data); err == nil {
		cs.Max = &hi
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	q1, median, q3 := quantile(sorted, 0.25), quantile(sorted, 0.5), quantile(sorted, 0.75)
	cs.Q1, cs.Median, cs.Q3 = &q1, &median, &q3
	return cs
}

func describeCategory(ds *Dataset, c Column) ColumnSummary {
	s := ds.series(c.Name)
	counts := make(map[string]int)
	var order []string
	total := 0
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := formatElement(e)
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
		total++
	}

	cs := ColumnSummary{Name: c.Name, Kind: c.Kind, Count: total}
	unique := len(order)
	cs.Unique = &unique
	if total == 0 {
		return cs
	}

	// Ties go to the value seen first.
	top, freq := order[0], counts[order[0]]
	for _, v := range order[1:] {
		if counts[v] > freq {
			top, freq = v, counts[v]
		}
	}
	cs.Top, cs.Freq = &top, &freq
	return cs
}

// quantile returns the p-quantile of sorted data using linear interpolation
// between the two nearest ranks: position (n-1)*p.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := float64(n-1) * p
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func statIndex(s Statistic) int {
	for i, v := range statisticOrder {
		if v == s {
			return i
		}
	}
	return len(statisticOrder)
}

// formatFloat renders v with at most six decimals and no trailing zeros.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return "NaN"
	}
	return formatFloat(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return "NaN"
	}
	return strconv.Itoa(*v)
}

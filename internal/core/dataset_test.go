package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustDataset(t *testing.T, csvText string) *Dataset {
	t.Helper()
	records, err := parseCSV(strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	ds, err := NewDataset(records, Source{Name: "test.csv", Format: FormatCSV})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func TestNewDataset_Shape(t *testing.T) {
	ds := mustDataset(t, "a,b\n1,2\n3,4")

	if ds.Rows() != 2 || ds.Cols() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", ds.Rows(), ds.Cols())
	}
	if got := ds.ColumnNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ColumnNames() = %v, want [a b]", got)
	}
	want := [][]string{{"1", "2"}, {"3", "4"}}
	if got := ds.Head(5); !reflect.DeepEqual(got, want) {
		t.Errorf("Head(5) = %v, want %v", got, want)
	}
}

func TestNewDataset_ColumnKinds(t *testing.T) {
	ds := mustDataset(t, strings.Join([]string{
		"n,f,flag,group,note",
		"1,1.5,True,x,alpha",
		"2,2.5,False,x,beta",
		"3,,TRUE,y,gamma",
		"4,4.5,false,x,delta",
	}, "\n"))

	want := map[string]ColumnKind{
		"n":     ColumnNumeric,
		"f":     ColumnNumeric,
		"flag":  ColumnBoolean,
		"group": ColumnCategorical,
		"note":  ColumnText,
	}
	for _, c := range ds.Columns() {
		if c.Kind != want[c.Name] {
			t.Errorf("column %q kind = %s, want %s", c.Name, c.Kind, want[c.Name])
		}
	}

	head := ds.Head(3)
	if head[2][1] != "NaN" {
		t.Errorf("missing float rendered as %q, want NaN", head[2][1])
	}
	if head[0][2] != "True" || head[1][2] != "False" {
		t.Errorf("booleans rendered as %q, %q", head[0][2], head[1][2])
	}
	if head[0][1] != "1.5" {
		t.Errorf("float rendered as %q, want 1.5", head[0][1])
	}
}

func TestNewDataset_MissingValueSpellings(t *testing.T) {
	ds := mustDataset(t, "x\n1\nNA\nnull\n\n4\nN/A")

	s := Describe(ds).Columns[0]
	if s.Kind != ColumnNumeric {
		t.Fatalf("kind = %s, want numeric", s.Kind)
	}
	if s.Count != 2 {
		t.Errorf("count = %d, want 2", s.Count)
	}
}

func TestNewDataset_HeaderFixups(t *testing.T) {
	ds := mustDataset(t, "a,,a,a\n1,2,3,4")

	want := []string{"a", "Unnamed: 1", "a.1", "a.2"}
	if got := ds.ColumnNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnNames() = %v, want %v", got, want)
	}
}

func TestNewDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    error
	}{
		{name: "no records", records: nil, want: ErrEmptyFile},
		{name: "blank header", records: [][]string{{"", " "}, {"1", "2"}}, want: ErrMissingHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDataset(tt.records, Source{})
			if !errors.Is(err, tt.want) {
				t.Errorf("NewDataset() error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := NewDataset([][]string{{"a", "b"}, {"1"}}, Source{})
	if err == nil || !strings.Contains(err.Error(), "expected 2 fields, got 1") {
		t.Errorf("ragged rows error = %v", err)
	}
}

func TestNewDataset_HeaderOnly(t *testing.T) {
	ds := mustDataset(t, "a,b\n")

	if ds.Rows() != 0 || ds.Cols() != 2 {
		t.Fatalf("shape = %dx%d, want 0x2", ds.Rows(), ds.Cols())
	}
	if got := ds.ColumnNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ColumnNames() = %v, want [a b]", got)
	}
	if got := ds.Head(5); len(got) != 0 {
		t.Errorf("Head(5) = %v, want no rows", got)
	}

	tv := Describe(ds).Table()
	want := [][]string{{"0", "0"}, {"0", "0"}, {"NaN", "NaN"}, {"NaN", "NaN"}}
	if !reflect.DeepEqual(tv.Index, []string{"count", "unique", "top", "freq"}) || !reflect.DeepEqual(tv.Rows, want) {
		t.Errorf("Describe() = %v %v, want count/unique 0 and top/freq NaN", tv.Index, tv.Rows)
	}
}

func TestNewDataset_BooleanNeedsEveryValue(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		kind ColumnKind
		head []string
	}{
		{name: "numbers mixed with true", csv: "a\n1\n0\ntrue", kind: ColumnText, head: []string{"1", "0", "true"}},
		{name: "single letters", csv: "a\nt\nf\nt", kind: ColumnText, head: []string{"t", "f", "t"}},
		{name: "all spellings", csv: "a\nTRUE\nfalse\nTrue\n", kind: ColumnBoolean, head: []string{"True", "False", "True"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := mustDataset(t, tt.csv)
			if got := ds.Columns()[0].Kind; got != tt.kind {
				t.Errorf("kind = %s, want %s", got, tt.kind)
			}
			var head []string
			for _, row := range ds.Head(5) {
				head = append(head, row[0])
			}
			if !reflect.DeepEqual(head, tt.head) {
				t.Errorf("head = %v, want %v", head, tt.head)
			}
		})
	}
}

func TestNewDataset_AllMissingIsNumeric(t *testing.T) {
	ds := mustDataset(t, "a,b\n1,\n2,NA\n")

	if got := ds.Columns()[1].Kind; got != ColumnNumeric {
		t.Fatalf("kind = %s, want numeric", got)
	}
	s := Describe(ds)
	if s.Columns[1].Count != 0 || s.Columns[1].Mean != nil {
		t.Errorf("summary = %+v, want count 0 and no mean", s.Columns[1])
	}
	tv := s.Table()
	if !reflect.DeepEqual(tv.Index, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}) {
		t.Errorf("Index = %v", tv.Index)
	}
	if tv.Rows[1][1] != "NaN" {
		t.Errorf("mean(b) = %q, want NaN", tv.Rows[1][1])
	}
}

func TestParseCSV_Errors(t *testing.T) {
	if _, err := parseCSV(strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty input error = %v, want ErrEmptyFile", err)
	}

	_, err := parseCSV(strings.NewReader("a,b\n1,2,3\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid csv") {
		t.Errorf("ragged input error = %v, want invalid csv", err)
	}
}

func TestParseCSV_BOM(t *testing.T) {
	records, err := parseCSV(strings.NewReader("\ufeffid,name\n1,x\n"))
	if err != nil {
		t.Fatalf("parseCSV: %v", err)
	}
	if records[0][0] != "id" {
		t.Errorf("first header = %q, want BOM stripped", records[0][0])
	}
}

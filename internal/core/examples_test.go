package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestExamples_Registered(t *testing.T) {
	list := Examples()
	if len(list) != 3 {
		t.Fatalf("Examples() returned %d entries, want 3", len(list))
	}

	labels := make([]string, len(list))
	for i, info := range list {
		labels[i] = info.Label
		if info.File != string(info.ID)+".csv" {
			t.Errorf("%s: File = %q", info.Label, info.File)
		}
	}
	if !reflect.DeepEqual(labels, []string{"Iris", "Tips", "Titanic"}) {
		t.Errorf("labels = %v", labels)
	}

	want := []string{"None", "Iris", "Tips", "Titanic"}
	if got := ExampleOptions(); !reflect.DeepEqual(got, want) {
		t.Errorf("ExampleOptions() = %v, want %v", got, want)
	}
}

func TestParseExampleID(t *testing.T) {
	tests := []struct {
		in      string
		want    ExampleID
		wantErr bool
	}{
		{in: "", want: ExampleNone},
		{in: "None", want: ExampleNone},
		{in: " none ", want: ExampleNone},
		{in: "Iris", want: ExampleIris},
		{in: "iris", want: ExampleIris},
		{in: "TIPS", want: ExampleTips},
		{in: "Titanic", want: ExampleTitanic},
		{in: "penguins", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseExampleID(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownExample) {
				t.Errorf("ParseExampleID(%q) error = %v, want ErrUnknownExample", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExampleID(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExampleID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegisterExample_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	RegisterExample(ExampleInfo{ID: ExampleIris, Label: "Iris again"})
}

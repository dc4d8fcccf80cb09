package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "unsupported format",
			err:         NewLoadError(KindUnsupportedFormat, "notes.txt", fmt.Errorf("%w: \".txt\"", ErrUnsupportedFormat)),
			wantCode:    "FMT001",
			wantMessage: "Only .csv and .xlsx files can be loaded",
		},
		{
			name:        "file too large",
			err:         NewLoadError(KindParse, "big.csv", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "ragged csv from encoding/csv",
			err:         errors.New("parse error: a.csv: invalid csv: record on line 3: wrong number of fields"),
			wantCode:    "FILE002",
			wantMessage: "Rows do not have a consistent number of columns",
		},
		{
			name:        "ragged rows from normalisation",
			err:         errors.New("parse error: a.xlsx: line 4: expected 3 fields, got 2"),
			wantCode:    "FILE002",
			wantMessage: "Rows do not have a consistent number of columns",
		},
		{
			name:        "bare quote",
			err:         errors.New(`invalid csv: parse error on line 2, column 4: bare " in non-quoted-field`),
			wantCode:    "FILE003",
			wantMessage: "A quoted field is not closed properly",
		},
		{
			name:        "malformed form",
			err:         fmt.Errorf("%w: multipart: NextPart: EOF", ErrMalformedForm),
			wantCode:    "FORM001",
			wantMessage: "The upload form could not be read",
		},
		{
			name:        "empty file",
			err:         NewLoadError(KindParse, "a.csv", ErrEmptyFile),
			wantCode:    "FILE005",
			wantMessage: "The file is empty",
		},
		{
			name:        "broken workbook",
			err:         errors.New("open workbook: zip: not a valid zip file"),
			wantCode:    "FILE006",
			wantMessage: "The file is not a readable Excel workbook",
		},
		{
			name:        "unknown example wins over fetch error",
			err:         NewLoadError(KindExampleFetch, "penguins", ErrUnknownExample),
			wantCode:    "EX001",
			wantMessage: "The example dataset is not available",
		},
		{
			name:        "example fetch",
			err:         NewLoadError(KindExampleFetch, "Iris", errors.New("GET: 503 Service Unavailable")),
			wantCode:    "EX002",
			wantMessage: "The example dataset could not be downloaded",
		},
		{
			name:        "busy",
			err:         ErrTooManyLoads,
			wantCode:    "LOAD001",
			wantMessage: "Too many datasets are loading right now",
		},
		{
			name:        "cancelled",
			err:         context.Canceled,
			wantCode:    "LOAD002",
			wantMessage: "The request was cancelled",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("something strange happened"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_CaseInsensitive(t *testing.T) {
	got := MapError(errors.New("FILE TOO LARGE"))
	if got.Code != "FILE001" {
		t.Errorf("MapError() Code = %q, want FILE001", got.Code)
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrEmptyFile)
	if !strings.Contains(got, "(Code: FILE005)") {
		t.Errorf("FormatUserError() = %q, want code FILE005", got)
	}
	if !strings.HasSuffix(got, "Please upload a file with a header row and data") {
		t.Errorf("FormatUserError() = %q, want action suffix", got)
	}
}

func TestErrorPatterns_HaveCodes(t *testing.T) {
	for _, ep := range errorPatterns {
		if ep.msg.Code == "" || ep.msg.Message == "" || ep.msg.Action == "" {
			t.Errorf("pattern %q has incomplete message: %+v", ep.pattern, ep.msg)
		}
	}
}

package core

import (
	"errors"
	"fmt"
)

// Sentinel causes. LoadError.Is matches the kind sentinels, so callers can
// write errors.Is(err, ErrParse) without unpacking the LoadError.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrParse             = errors.New("parse error")
	ErrExampleFetch      = errors.New("example fetch error")

	ErrFileTooLarge    = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
	ErrNoFile          = errors.New("no file provided")
	ErrMalformedForm   = errors.New("malformed form data")
	ErrUnknownExample  = errors.New("unknown example dataset")
	ErrNoSheets        = errors.New("workbook has no sheets")
	ErrMissingHeader   = errors.New("header row not found")
	ErrNilDataset      = errors.New("nil dataset")
	ErrSessionNotFound = errors.New("session not found")
)

// LoadErrorKind classifies why the Loader could not produce a Dataset.
type LoadErrorKind int

const (
	KindUnsupportedFormat LoadErrorKind = iota + 1
	KindParse
	KindExampleFetch
)

func (k LoadErrorKind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindParse:
		return "parse error"
	case KindExampleFetch:
		return "example fetch error"
	default:
		return fmt.Sprintf("load error(%d)", int(k))
	}
}

func (k LoadErrorKind) sentinel() error {
	switch k {
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindParse:
		return ErrParse
	case KindExampleFetch:
		return ErrExampleFetch
	default:
		return nil
	}
}

// LoadError is returned by every Loader entry point when the input could
// not be turned into a Dataset. Source is the file name or example label.
type LoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *LoadError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Cause returns the human-readable reason without the kind/source prefix.
func (e *LoadError) Cause() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// NewLoadError wraps err as a load failure of the given kind.
func NewLoadError(kind LoadErrorKind, source string, err error) *LoadError {
	return &LoadError{Kind: kind, Source: source, Err: err}
}

// AsLoadError unwraps err into a *LoadError if one is in the chain.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultMaxFileSize is the upload cap used when none is configured.
const DefaultMaxFileSize = 50 << 20

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Examples      *ExampleRepository
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
}

// Loader turns an uploaded file or an example identifier into a Dataset.
// It never touches a Session; callers replace the Session's Dataset only
// after a nil error.
type Loader struct {
	examples    *ExampleRepository
	limiter     *LoadLimiter
	maxFileSize int64
}

// NewLoader creates a Loader. A nil Examples repository uses the default
// remote location with no disk cache.
func NewLoader(cfg LoaderConfig) *Loader {
	repo := cfg.Examples
	if repo == nil {
		repo = NewExampleRepository(ExampleRepositoryConfig{})
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Loader{
		examples:    repo,
		limiter:     NewLoadLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		maxFileSize: maxSize,
	}
}

// Limiter exposes the parse limiter for status reporting and shutdown.
func (l *Loader) Limiter() *LoadLimiter {
	return l.limiter
}

// CachedExamples lists the examples whose bodies are already in memory.
func (l *Loader) CachedExamples() []ExampleID {
	ids := []ExampleID{}
	for _, info := range Examples() {
		if l.examples.Cached(info.ID) {
			ids = append(ids, info.ID)
		}
	}
	return ids
}

// MaxFileSize returns the upload cap in bytes.
func (l *Loader) MaxFileSize() int64 {
	return l.maxFileSize
}

// LoadFile parses r as the format implied by name.
//
// Errors: *LoadError of KindUnsupportedFormat or KindParse, ErrTooManyLoads
// when no parse slot frees up in time, or the context error.
func (l *Loader) LoadFile(ctx context.Context, name string, r io.Reader) (ds *Dataset, err error) {
	start := time.Now()
	format, err := FormatFromFilename(name)
	defer func() { observeLoad("upload", format, start, err) }()
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, NewLoadError(KindParse, name, ErrNoFile)
	}

	if err := l.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer l.limiter.Release()

	data, err := io.ReadAll(&countingReader{r: r, limit: l.maxFileSize})
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, NewLoadError(KindParse, name, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, l.maxFileSize))
		}
		return nil, NewLoadError(KindParse, name, fmt.Errorf("read upload: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err = parseRecords(format, data, Source{Name: name, Format: format})
	if err != nil {
		return nil, NewLoadError(KindParse, name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("dataset loaded",
		"source", name,
		"format", format.String(),
		"rows", ds.Rows(),
		"cols", ds.Cols(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// LoadExample fetches and parses a registered example.
//
// Errors: *LoadError of KindExampleFetch (unknown id, download or parse
// failure), ErrTooManyLoads, or the context error.
func (l *Loader) LoadExample(ctx context.Context, id ExampleID) (ds *Dataset, err error) {
	start := time.Now()
	defer func() { observeLoad("example", FormatCSV, start, err) }()

	info, ok := GetExample(id)
	if !ok {
		return nil, NewLoadError(KindExampleFetch, string(id), fmt.Errorf("%w: %q", ErrUnknownExample, string(id)))
	}

	body, err := l.examples.Fetch(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, NewLoadError(KindExampleFetch, info.Label, err)
	}

	if err := l.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer l.limiter.Release()

	ds, err = parseRecords(FormatCSV, body, Source{Name: info.Label, Format: FormatCSV, Example: id})
	if err != nil {
		return nil, NewLoadError(KindExampleFetch, info.Label, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("example loaded",
		"dataset", info.Label,
		"rows", ds.Rows(),
		"cols", ds.Cols(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

func parseRecords(format Format, data []byte, src Source) (*Dataset, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = parseCSV(bytes.NewReader(data))
	case FormatSpreadsheet:
		records, err = parseSpreadsheet(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return NewDataset(records, src)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ExampleID identifies a bundled example dataset. The zero value means no
// example is selected.
type ExampleID string

const (
	ExampleNone    ExampleID = ""
	ExampleIris    ExampleID = "iris"
	ExampleTips    ExampleID = "tips"
	ExampleTitanic ExampleID = "titanic"
)

// NoneLabel is the dropdown entry for "no example selected".
const NoneLabel = "None"

// DefaultExamplesBaseURL serves <name>.csv for every registered example.
const DefaultExamplesBaseURL = "https://raw.githubusercontent.com/mwaskom/seaborn-data/master"

// maxExampleSize caps a remote example download.
const maxExampleSize = 16 << 20

// ExampleInfo describes one example dataset.
type ExampleInfo struct {
	ID          ExampleID `json:"id"`
	Label       string    `json:"label"`
	File        string    `json:"file"`
	Columns     int       `json:"columns"`
	Description string    `json:"description"`
}

var (
	examples   = make(map[ExampleID]ExampleInfo)
	examplesMu sync.RWMutex
)

// RegisterExample adds an example to the registry.
// Panics if an example with the same ID is already registered.
func RegisterExample(info ExampleInfo) {
	examplesMu.Lock()
	defer examplesMu.Unlock()

	if info.ID == ExampleNone {
		panic("example registered without an id")
	}
	if _, exists := examples[info.ID]; exists {
		panic(fmt.Sprintf("example already registered: %s", info.ID))
	}
	if info.File == "" {
		info.File = string(info.ID) + ".csv"
	}
	examples[info.ID] = info
}

// GetExample returns a registered example by ID.
func GetExample(id ExampleID) (ExampleInfo, bool) {
	examplesMu.RLock()
	defer examplesMu.RUnlock()

	info, ok := examples[id]
	return info, ok
}

// Examples returns all registered examples sorted by label.
func Examples() []ExampleInfo {
	examplesMu.RLock()
	defer examplesMu.RUnlock()

	result := make([]ExampleInfo, 0, len(examples))
	for _, info := range examples {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Label < result[j].Label
	})
	return result
}

// ExampleOptions returns the dropdown labels: None followed by every example.
func ExampleOptions() []string {
	list := Examples()
	opts := make([]string, 0, len(list)+1)
	opts = append(opts, NoneLabel)
	for _, info := range list {
		opts = append(opts, info.Label)
	}
	return opts
}

// ParseExampleID resolves a label or key, ignoring case. Empty and "None"
// return ExampleNone with no error.
func ParseExampleID(s string) (ExampleID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NoneLabel) {
		return ExampleNone, nil
	}

	examplesMu.RLock()
	defer examplesMu.RUnlock()
	for id, info := range examples {
		if strings.EqualFold(s, string(id)) || strings.EqualFold(s, info.Label) {
			return id, nil
		}
	}
	return ExampleNone, fmt.Errorf("%w: %q", ErrUnknownExample, s)
}

func init() {
	RegisterExample(ExampleInfo{
		ID:          ExampleIris,
		Label:       "Iris",
		Columns:     5,
		Description: "Sepal and petal measurements of 150 iris flowers from three species.",
	})
	RegisterExample(ExampleInfo{
		ID:          ExampleTips,
		Label:       "Tips",
		Columns:     7,
		Description: "Restaurant bills and tips with diner and visit attributes.",
	})
	RegisterExample(ExampleInfo{
		ID:          ExampleTitanic,
		Label:       "Titanic",
		Columns:     15,
		Description: "Passengers of the Titanic with class, fare and survival.",
	})
}

// ExampleRepository fetches example CSV files from a static HTTP location.
// Bodies are kept in memory for the life of the process and, when cacheDir
// is set, on disk across restarts. Concurrent fetches of the same example
// share one request.
type ExampleRepository struct {
	baseURL  string
	cacheDir string
	client   *http.Client

	group singleflight.Group

	mu    sync.RWMutex
	cache map[ExampleID][]byte
}

// ExampleRepositoryConfig configures an ExampleRepository.
type ExampleRepositoryConfig struct {
	BaseURL      string
	CacheDir     string
	FetchTimeout time.Duration
	Client       *http.Client
}

// NewExampleRepository creates a repository. An empty BaseURL uses
// DefaultExamplesBaseURL.
func NewExampleRepository(cfg ExampleRepositoryConfig) *ExampleRepository {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultExamplesBaseURL
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.FetchTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &ExampleRepository{
		baseURL:  base,
		cacheDir: cfg.CacheDir,
		client:   client,
		cache:    make(map[ExampleID][]byte),
	}
}

// Fetch returns the raw CSV bytes of an example.
func (r *ExampleRepository) Fetch(ctx context.Context, id ExampleID) ([]byte, error) {
	info, ok := GetExample(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExample, string(id))
	}

	r.mu.RLock()
	body, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		exampleFetches.WithLabelValues(string(id), "memory").Inc()
		return body, nil
	}

	// The shared fetch runs detached so one caller cancelling does not fail
	// the others waiting on it.
	ch := r.group.DoChan(string(id), func() (any, error) {
		return r.load(context.WithoutCancel(ctx), info)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			exampleFetches.WithLabelValues(string(id), "error").Inc()
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Cached reports whether id is held in memory.
func (r *ExampleRepository) Cached(id ExampleID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cache[id]
	return ok
}

func (r *ExampleRepository) load(ctx context.Context, info ExampleInfo) ([]byte, error) {
	r.mu.RLock()
	body, ok := r.cache[info.ID]
	r.mu.RUnlock()
	if ok {
		exampleFetches.WithLabelValues(string(info.ID), "memory").Inc()
		return body, nil
	}

	if body, ok := r.readDisk(info); ok {
		exampleFetches.WithLabelValues(string(info.ID), "disk").Inc()
		r.remember(info.ID, body)
		return body, nil
	}

	body, err := r.download(ctx, info)
	if err != nil {
		return nil, err
	}
	exampleFetches.WithLabelValues(string(info.ID), "remote").Inc()
	r.remember(info.ID, body)
	r.writeDisk(info, body)
	return body, nil
}

func (r *ExampleRepository) download(ctx context.Context, info ExampleInfo) ([]byte, error) {
	url := r.baseURL + "/" + info.File
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxExampleSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(body) > maxExampleSize {
		return nil, fmt.Errorf("GET %s: %w", url, ErrFileTooLarge)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("GET %s: %w", url, ErrEmptyFile)
	}

	slog.Info("example dataset downloaded",
		"dataset", info.Label,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return body, nil
}

func (r *ExampleRepository) remember(id ExampleID, body []byte) {
	r.mu.Lock()
	r.cache[id] = body
	r.mu.Unlock()
}

func (r *ExampleRepository) readDisk(info ExampleInfo) ([]byte, bool) {
	if r.cacheDir == "" {
		return nil, false
	}
	body, err := os.ReadFile(filepath.Join(r.cacheDir, info.File))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("example cache read failed", "dataset", info.Label, "error", err)
		}
		return nil, false
	}
	if len(body) == 0 {
		return nil, false
	}
	return body, true
}

// writeDisk stores body via a temp file and rename so a crash never leaves
// a truncated cache entry. Failures are logged and otherwise ignored.
func (r *ExampleRepository) writeDisk(info ExampleInfo, body []byte) {
	if r.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		slog.Warn("example cache dir unavailable", "dir", r.cacheDir, "error", err)
		return
	}

	tmp, err := os.CreateTemp(r.cacheDir, info.File+".*.tmp")
	if err != nil {
		slog.Warn("example cache write failed", "dataset", info.Label, "error", err)
		return
	}
	_, werr := tmp.Write(body)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		slog.Warn("example cache write failed", "dataset", info.Label, "error", errors.Join(werr, cerr))
		return
	}
	if err := os.Rename(tmp.Name(), filepath.Join(r.cacheDir, info.File)); err != nil {
		os.Remove(tmp.Name())
		slog.Warn("example cache write failed", "dataset", info.Label, "error", err)
	}
}

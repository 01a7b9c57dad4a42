// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/popcorn/internal/models"
)

// MockCatalog is a test double for [services.Catalog]
//
// Results and Details are keyed by query and id. Errors keyed the same way take precedence.
// When Block is set, calls wait on ctx (or Release) before answering.
type MockCatalog struct {
	Results map[string][]models.SearchResultItem
	Details map[string]models.MovieDetail
	Errors  map[string]error
	Block   bool
	Release chan struct{}

	mu      sync.Mutex
	queries []string
	ids     []string
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Results: map[string][]models.SearchResultItem{},
		Details: map[string]models.MovieDetail{},
		Errors:  map[string]error{},
		Release: make(chan struct{}),
	}
}

func (m *MockCatalog) Search(ctx context.Context, title string) ([]models.SearchResultItem, error) {
	m.mu.Lock()
	m.queries = append(m.queries, title)
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[title]; ok {
		return nil, err
	}
	results, ok := m.Results[title]
	if !ok {
		return nil, ErrMockNotFound
	}
	return slices.Clone(results), nil
}

func (m *MockCatalog) Detail(ctx context.Context, id string) (*models.MovieDetail, error) {
	m.mu.Lock()
	m.ids = append(m.ids, id)
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[id]; ok {
		return nil, err
	}
	detail, ok := m.Details[id]
	if !ok {
		return nil, ErrMockNotFound
	}
	return &detail, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// Queries returns every title passed to Search, in call order.
func (m *MockCatalog) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.queries)
}

// IDs returns every id passed to Detail, in call order.
func (m *MockCatalog) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ids)
}

func (m *MockCatalog) wait(ctx context.Context) error {
	if !m.Block {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.Release:
		return nil
	}
}

// ErrMockNotFound is returned by [MockCatalog] for unknown keys when no error is configured.
var ErrMockNotFound = errors.New("mock: not found")

// MockStore is an in-memory watched list store that records every save.
type MockStore struct {
	Stored  []models.WatchedMovie
	Saves   int
	FailErr error
}

func (s *MockStore) Load() ([]models.WatchedMovie, error) {
	return slices.Clone(s.Stored), nil
}

func (s *MockStore) Save(movies []models.WatchedMovie) error {
	if s.FailErr != nil {
		return s.FailErr
	}
	s.Saves++
	s.Stored = slices.Clone(movies)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

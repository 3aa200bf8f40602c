// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/rutinas/internal/models"
)

// MockGateway is a test double for [services.RoutineGateway].
//
// Each method delegates to the matching func field when set and otherwise returns an empty success.
// Calls are counted per method name and the arguments of the last call are kept.
type MockGateway struct {
	ListFunc      func(ctx context.Context, q models.ListQuery) (*models.RoutinePage, error)
	SearchFunc    func(ctx context.Context, name string, day models.Weekday) ([]models.Routine, error)
	GetFunc       func(ctx context.Context, id int) (*models.Routine, error)
	CreateFunc    func(ctx context.Context, payload models.RoutinePayload) (*models.Routine, error)
	UpdateFunc    func(ctx context.Context, id int, payload models.RoutinePayload) (*models.Routine, error)
	DeleteFunc    func(ctx context.Context, id int) error
	DuplicateFunc func(ctx context.Context, id int) (*models.Routine, error)
	ExportFunc    func(ctx context.Context, format models.ExportFormat) (*models.ExportFile, error)
	StatsFunc     func(ctx context.Context) (*models.Stats, error)

	mu          sync.Mutex
	calls       map[string]int
	LastQuery   models.ListQuery
	LastPayload models.RoutinePayload
}

func (m *MockGateway) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockGateway) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockGateway) List(ctx context.Context, q models.ListQuery) (*models.RoutinePage, error) {
	m.record("List")
	m.mu.Lock()
	m.LastQuery = q
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return &models.RoutinePage{Items: []models.Routine{}, Page: q.Page, Size: q.Size}, nil
}

func (m *MockGateway) Search(ctx context.Context, name string, day models.Weekday) ([]models.Routine, error) {
	m.record("Search")
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, name, day)
	}
	return []models.Routine{}, nil
}

func (m *MockGateway) Get(ctx context.Context, id int) (*models.Routine, error) {
	m.record("Get")
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.Routine{ID: id}, nil
}

func (m *MockGateway) Create(ctx context.Context, payload models.RoutinePayload) (*models.Routine, error) {
	m.record("Create")
	m.mu.Lock()
	m.LastPayload = payload
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, payload)
	}
	return &models.Routine{ID: 1, Name: payload.Name}, nil
}

func (m *MockGateway) Update(ctx context.Context, id int, payload models.RoutinePayload) (*models.Routine, error) {
	m.record("Update")
	m.mu.Lock()
	m.LastPayload = payload
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, payload)
	}
	return &models.Routine{ID: id, Name: payload.Name}, nil
}

func (m *MockGateway) Delete(ctx context.Context, id int) error {
	m.record("Delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockGateway) Duplicate(ctx context.Context, id int) (*models.Routine, error) {
	m.record("Duplicate")
	if m.DuplicateFunc != nil {
		return m.DuplicateFunc(ctx, id)
	}
	return &models.Routine{ID: id + 1000}, nil
}

func (m *MockGateway) Export(ctx context.Context, format models.ExportFormat) (*models.ExportFile, error) {
	m.record("Export")
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, format)
	}
	return &models.ExportFile{Filename: format.Filename(), Data: []byte{}}, nil
}

func (m *MockGateway) Stats(ctx context.Context) (*models.Stats, error) {
	m.record("Stats")
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.Stats{ExercisesPerDay: map[models.Weekday]int{}}, nil
}

// SampleRoutine builds a routine with n exercises spread across the week.
func SampleRoutine(id int, name string, n int) models.Routine {
	r := models.Routine{ID: id, Name: name, Exercises: []models.Exercise{}}
	for i := range n {
		exID := id*100 + i
		r.Exercises = append(r.Exercises, models.Exercise{
			ID:          &exID,
			RoutineID:   id,
			Name:        "Ejercicio " + string(rune('A'+i)),
			Day:         models.Weekdays[i%len(models.Weekdays)],
			Series:      3,
			Repetitions: 10,
			Order:       i,
		})
	}
	return r
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

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

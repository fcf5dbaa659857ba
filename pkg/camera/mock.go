package camera

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource yields a fixed number of blank frames, then reports
// ErrSourceClosed. Used by pipeline tests and dry runs without hardware.
type MockSource struct {
	mu        sync.Mutex
	remaining int
	reads     int
	closed    bool
}

// Ensure MockSource implements Source
var _ Source = (*MockSource)(nil)

// NewMockSource creates a source producing n frames.
func NewMockSource(n int) *MockSource {
	return &MockSource{remaining: n}
}

// Read returns the next blank frame.
func (m *MockSource) Read() (gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.remaining <= 0 {
		return gocv.Mat{}, ErrSourceClosed
	}
	m.remaining--
	m.reads++
	return gocv.NewMat(), nil
}

// Reads returns how many frames were handed out.
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

package detect

import (
	"sync"

	"gocv.io/x/gocv"
)

// Mock is a scripted detector for tests and PLC-less dry runs.
// Each Detect call returns the next scripted frame; once the script is
// exhausted it returns no detections.
type Mock struct {
	mu     sync.Mutex
	frames [][]Detection
	calls  int
	err    error
	closed bool
}

// Ensure Mock implements Detector
var _ Detector = (*Mock)(nil)

// NewMock creates a mock detector returning the given per-frame results.
func NewMock(frames ...[]Detection) *Mock {
	return &Mock{frames: frames}
}

// FailWith makes every subsequent Detect call return err.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted frame's detections.
func (m *Mock) Detect(_ gocv.Mat) ([]Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	if m.calls >= len(m.frames) {
		m.calls++
		return nil, nil
	}

	dets := m.frames[m.calls]
	m.calls++
	return dets, nil
}

// Calls returns how many times Detect was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

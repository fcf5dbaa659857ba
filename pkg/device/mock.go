package device

import (
	"context"
	"sync"
	"time"
)

// TagWrite records one write seen by the mock.
type TagWrite struct {
	Tag   string
	Value any
	At    time.Time
}

// Mock is a TagWriter that records writes, for tests and dry runs.
type Mock struct {
	mu     sync.Mutex
	writes []TagWrite
	fail   map[string]error
	delay  time.Duration
}

// Ensure Mock implements TagWriter
var _ TagWriter = (*Mock)(nil)

// NewMock creates a recording tag writer.
func NewMock() *Mock {
	return &Mock{fail: make(map[string]error)}
}

// FailTag makes writes to the given tag return err. Pass nil to heal it.
func (m *Mock) FailTag(tag string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, tag)
		return
	}
	m.fail[tag] = err
}

// SetDelay adds an artificial per-write delay, for serialization tests.
func (m *Mock) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// WriteTag records the write, honoring injected failures and delay.
func (m *Mock) WriteTag(_ context.Context, tag string, value any) error {
	m.mu.Lock()
	delay := m.delay
	err := m.fail[tag]
	if err == nil {
		m.writes = append(m.writes, TagWrite{Tag: tag, Value: value, At: time.Now()})
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

// Writes returns a copy of the recorded writes in order.
func (m *Mock) Writes() []TagWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TagWrite, len(m.writes))
	copy(out, m.writes)
	return out
}

// Tags returns just the tag names of the recorded writes, in order.
func (m *Mock) Tags() []string {
	writes := m.Writes()
	out := make([]string, len(writes))
	for i, w := range writes {
		out[i] = w.Tag
	}
	return out
}

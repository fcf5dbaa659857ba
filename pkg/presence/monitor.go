// Package presence collapses a frame's detections into a single
// "anything present" boolean and mirrors it to a PLC coil.
//
// Writes are edge-triggered: the coil is only written when the state
// changes, which keeps Modbus traffic to a handful of frames per part.
package presence

import (
	"context"

	"github.com/pickpoint/go-pickvision/internal/log"
)

// CoilWriter is the boolean output capability the monitor needs.
type CoilWriter interface {
	WriteCoil(ctx context.Context, coil uint16, on bool) error
}

// Monitor tracks the presence state and writes transitions to the coil.
// Driven by the single pipeline worker; not safe for concurrent use.
type Monitor struct {
	coil CoilWriter
	addr uint16
	last *bool

	// OnChange, when set, observes every state transition.
	OnChange func(present bool)
}

// NewMonitor creates a monitor writing to the given coil address.
// A nil writer disables PLC output (dry run).
func NewMonitor(coil CoilWriter, addr uint16) *Monitor {
	return &Monitor{coil: coil, addr: addr}
}

// Observe consumes one frame's presence state. Returns whether a coil
// write was attempted and its outcome. A write failure is non-fatal:
// the state still advances so the next transition is still an edge.
func (m *Monitor) Observe(ctx context.Context, present bool) (wrote bool, err error) {
	if m.last != nil && *m.last == present {
		return false, nil
	}
	m.last = &present

	log.Info("presence changed", "present", present)
	if m.OnChange != nil {
		m.OnChange(present)
	}

	if m.coil == nil {
		return false, nil
	}

	if err := m.coil.WriteCoil(ctx, m.addr, present); err != nil {
		log.Error("presence coil write failed", "coil", m.addr, "err", err)
		return true, err
	}
	return true, nil
}

// Present returns the last observed state, or false before any frame.
func (m *Monitor) Present() bool {
	return m.last != nil && *m.last
}

package actuation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SummaryEntry is one attempted actuation, in first-seen order.
type SummaryEntry struct {
	Label    string  `json:"label"`
	Pressure float64 `json:"pressure"`
}

// Summary is the authoritative record of what the session attempted to
// actuate, regardless of per-sink outcomes. Printed for operator review
// at shutdown.
type Summary struct {
	ID        uuid.UUID `json:"session_id"`
	StartedAt time.Time `json:"started_at"`

	mu      sync.Mutex
	entries []SummaryEntry
}

// NewSummary starts a session record.
func NewSummary() *Summary {
	return &Summary{
		ID:        uuid.New(),
		StartedAt: time.Now(),
	}
}

// Append records one attempted actuation.
func (s *Summary) Append(label string, pressure float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, SummaryEntry{Label: label, Pressure: pressure})
}

// Entries returns a copy of the recorded entries in order.
func (s *Summary) Entries() []SummaryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SummaryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of recorded entries.
func (s *Summary) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// String renders the operator report.
func (s *Summary) String() string {
	entries := s.Entries()

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s (%d items)\n", s.ID, len(entries))
	for i, e := range entries {
		fmt.Fprintf(&b, "[%d] %s  ->  %.1f kPa\n", i+1, e.Label, e.Pressure)
	}
	return b.String()
}

// Package pressure maps detected item labels to gripper pressure setpoints.
//
// The table is loaded once before a session starts and is immutable after
// that. Insertion order is part of the table's identity: the PLC program
// indexes its pressure recipes by the 1-based position of each label, so
// the order the mapping file lists items in is the order the PLC expects.
package pressure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pickpoint/go-pickvision/internal/log"
)

// Defaults applied to labels absent from the table. Index 0 tells the PLC
// "no recipe"; 50 kPa is a safe grip for unknown items.
const (
	DefaultIndex    = 0
	DefaultPressure = 50.0
)

// Entry is one label → pressure mapping.
type Entry struct {
	Label    string
	Pressure float64
}

// Table is an ordered label → pressure mapping.
type Table struct {
	entries []Entry
	byLabel map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{byLabel: make(map[string]int)}
}

// FromEntries builds a table from entries in order.
// A repeated label keeps its original position; the last pressure wins.
func FromEntries(entries []Entry) *Table {
	t := New()
	for _, e := range entries {
		t.add(e.Label, e.Pressure)
	}
	return t
}

func (t *Table) add(label string, p float64) {
	if i, ok := t.byLabel[label]; ok {
		log.Debug("pressure: duplicate label, last value wins", "label", label, "pressure", p)
		t.entries[i].Pressure = p
		return
	}
	t.byLabel[label] = len(t.entries)
	t.entries = append(t.entries, Entry{Label: label, Pressure: p})
}

// Lookup returns the PLC item index and pressure for a label.
// It is total: an unknown label returns (DefaultIndex, DefaultPressure).
// The index of a known label is its 1-based insertion position.
func (t *Table) Lookup(label string) (index int, pressure float64) {
	if i, ok := t.byLabel[label]; ok {
		return i + 1, t.entries[i].Pressure
	}
	return DefaultIndex, DefaultPressure
}

// Contains reports whether the label has a configured entry.
func (t *Table) Contains(label string) bool {
	_, ok := t.byLabel[label]
	return ok
}

// Len returns the number of configured entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Labels returns the configured labels in insertion order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Label
	}
	return out
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Parse reads a JSON object of {"label": pressure, ...} preserving key
// order. encoding/json maps would lose it, so the object is walked
// token by token.
func Parse(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("pressure: read mapping: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("pressure: mapping must be a JSON object, got %v", tok)
	}

	t := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("pressure: read label: %w", err)
		}
		label := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("pressure: read pressure for %q: %w", label, err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("pressure: pressure for %q must be a number, got %v", label, valTok)
		}
		p, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("pressure: pressure for %q: %w", label, err)
		}
		t.add(label, p)
	}

	// Consume closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("pressure: read mapping: %w", err)
	}

	return t, nil
}

// Load reads a mapping file such as item_data.json.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pressure: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, err
	}
	log.Info("pressure: mapping loaded", "path", path, "items", t.Len())
	return t, nil
}

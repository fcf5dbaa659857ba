package actuation

import (
	"github.com/pickpoint/go-pickvision/internal/log"
	"github.com/pickpoint/go-pickvision/pkg/detect"
	"github.com/pickpoint/go-pickvision/pkg/pressure"
)

// TrackerConfig holds event-emission policy.
type TrackerConfig struct {
	// RepeatMode disables first-sighting deduplication: one command per
	// detection per frame instead of one per label per session.
	RepeatMode bool
}

// Tracker consumes per-frame detection lists and emits commands for new
// items. Per-label state is Unseen until the first sighting, then Seen
// for the rest of the session; under the default policy only the
// Unseen→Seen transition emits a command.
//
// The tracker owns all session state. It is driven by the single
// pipeline worker and is not safe for concurrent use.
type Tracker struct {
	table *pressure.Table
	cfg   TrackerConfig
	seen  map[string]bool
}

// NewTracker creates a tracker over the given pressure table.
func NewTracker(table *pressure.Table, cfg TrackerConfig) *Tracker {
	return &Tracker{
		table: table,
		cfg:   cfg,
		seen:  make(map[string]bool),
	}
}

// Observe consumes one frame's detections and returns the commands to
// dispatch, in detector order. Confidence filtering happened upstream in
// the detector; every detection here is eligible.
func (t *Tracker) Observe(dets []detect.Detection) []Command {
	var cmds []Command
	for _, d := range dets {
		first := !t.seen[d.Label]
		if first {
			t.seen[d.Label] = true
			log.Info("new item detected", "label", d.Label, "confidence", d.Confidence)
		}

		if !first && !t.cfg.RepeatMode {
			continue
		}

		index, p := t.table.Lookup(d.Label)
		cmds = append(cmds, Command{
			Label:      d.Label,
			Index:      index,
			Pressure:   p,
			Confidence: d.Confidence,
			Center:     d.Center(),
		})
	}
	return cmds
}

// Seen reports whether the label was sighted this session.
func (t *Tracker) Seen(label string) bool {
	return t.seen[label]
}

// SeenCount returns the number of distinct labels sighted this session.
func (t *Tracker) SeenCount() int {
	return len(t.seen)
}

// Reset clears all per-session state for a new session.
func (t *Tracker) Reset() {
	t.seen = make(map[string]bool)
}

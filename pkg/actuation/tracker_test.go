package actuation

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickpoint/go-pickvision/pkg/detect"
	"github.com/pickpoint/go-pickvision/pkg/pressure"
)

func fruitTable() *pressure.Table {
	return pressure.FromEntries([]pressure.Entry{
		{Label: "apple", Pressure: 60},
		{Label: "banana", Pressure: 45},
	})
}

func det(label string, conf float64) detect.Detection {
	return detect.Detection{Label: label, Confidence: conf, Box: image.Rect(100, 100, 200, 200)}
}

func TestTracker_OneCommandPerLabelPerSession(t *testing.T) {
	tr := NewTracker(fruitTable(), TrackerConfig{})

	// Frame 1: banana
	cmds := tr.Observe([]detect.Detection{det("banana", 0.9)})
	require.Len(t, cmds, 1)
	assert.Equal(t, "banana", cmds[0].Label)
	assert.Equal(t, 2, cmds[0].Index)
	assert.Equal(t, 45.0, cmds[0].Pressure)
	assert.Equal(t, 0.9, cmds[0].Confidence)

	// Frame 2: apple
	cmds = tr.Observe([]detect.Detection{det("apple", 0.8)})
	require.Len(t, cmds, 1)
	assert.Equal(t, "apple", cmds[0].Label)
	assert.Equal(t, 1, cmds[0].Index)
	assert.Equal(t, 60.0, cmds[0].Pressure)

	// Frame 3: banana again, suppressed
	cmds = tr.Observe([]detect.Detection{det("banana", 0.95)})
	assert.Empty(t, cmds)

	assert.Equal(t, 2, tr.SeenCount())
}

func TestTracker_UnknownLabelGetsDefaults(t *testing.T) {
	tr := NewTracker(fruitTable(), TrackerConfig{})

	cmds := tr.Observe([]detect.Detection{det("carrot", 0.7)})
	require.Len(t, cmds, 1)
	assert.Equal(t, "carrot", cmds[0].Label)
	assert.Equal(t, pressure.DefaultIndex, cmds[0].Index)
	assert.Equal(t, pressure.DefaultPressure, cmds[0].Pressure)
}

func TestTracker_FrameOrderPreserved(t *testing.T) {
	tr := NewTracker(fruitTable(), TrackerConfig{})

	cmds := tr.Observe([]detect.Detection{
		det("banana", 0.9),
		det("apple", 0.8),
		det("carrot", 0.7),
	})
	require.Len(t, cmds, 3)
	assert.Equal(t, "banana", cmds[0].Label)
	assert.Equal(t, "apple", cmds[1].Label)
	assert.Equal(t, "carrot", cmds[2].Label)
}

func TestTracker_DuplicateWithinFrameEmitsOnce(t *testing.T) {
	tr := NewTracker(fruitTable(), TrackerConfig{})

	cmds := tr.Observe([]detect.Detection{
		det("banana", 0.9),
		det("banana", 0.85),
	})
	assert.Len(t, cmds, 1)
}

func TestTracker_RepeatMode(t *testing.T) {
	tr := NewTracker(fruitTable(), TrackerConfig{RepeatMode: true})

	cmds := tr.Observe([]detect.Detection{det("banana", 0.9), det("banana", 0.85)})
	assert.Len(t, cmds, 2)

	cmds = tr.Observe([]detect.Detection{det("banana", 0.95)})
	assert.Len(t, cmds, 1, "repeat mode emits every detection")

	assert.True(t, tr.Seen("banana"), "repeat mode still records sightings")
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(fruitTable(), TrackerConfig{})

	tr.Observe([]detect.Detection{det("banana", 0.9)})
	require.True(t, tr.Seen("banana"))

	tr.Reset()
	assert.False(t, tr.Seen("banana"))

	cmds := tr.Observe([]detect.Detection{det("banana", 0.9)})
	assert.Len(t, cmds, 1, "label is new again after reset")
}

func TestTracker_CommandCarriesCentroid(t *testing.T) {
	tr := NewTracker(fruitTable(), TrackerConfig{})

	d := detect.Detection{Label: "banana", Confidence: 0.9, Box: image.Rect(0, 0, 100, 50)}
	cmds := tr.Observe([]detect.Detection{d})
	require.Len(t, cmds, 1)
	assert.Equal(t, image.Pt(50, 25), cmds[0].Center)
}

// Package actuation turns per-frame detections into deduplicated
// actuation commands and dispatches them to the PLC handshake and the
// telemetry sink.
package actuation

import (
	"fmt"
	"image"
)

// Command is one "new item" actuation event: everything the sinks need,
// resolved against the pressure table at emission time.
type Command struct {
	Label      string
	Index      int
	Pressure   float64 // kPa
	Confidence float64
	Center     image.Point
}

// String renders the command for logs.
func (c Command) String() string {
	return fmt.Sprintf("%s index=%d pressure=%.1f kPa conf=%.2f at (%d,%d)",
		c.Label, c.Index, c.Pressure, c.Confidence, c.Center.X, c.Center.Y)
}

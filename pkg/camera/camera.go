// Package camera provides frame acquisition for the picking cell.
package camera

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrSourceClosed signals that the source has no more frames.
// The pipeline treats it as normal end of session, not a failure.
var ErrSourceClosed = errors.New("camera: source closed")

// Source produces frames for the detector.
// The caller owns each returned Mat and must Close it.
type Source interface {
	Read() (gocv.Mat, error)
	Close() error
}

// Config holds capture settings.
type Config struct {
	DeviceIndex int
	Width       int // 0 = leave driver default
	Height      int // 0 = leave driver default
}

// DefaultConfig returns settings for the default webcam.
func DefaultConfig() Config {
	return Config{DeviceIndex: 0}
}

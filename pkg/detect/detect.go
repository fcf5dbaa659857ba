// Package detect provides labeled object detection for the picking cell.
package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// Detection represents one detected item in a frame.
type Detection struct {
	Label      string          // Class label from the model
	Confidence float64         // Detection confidence (0-1)
	Box        image.Rectangle // Bounding box in pixel coordinates
}

// Center returns the centroid of the bounding box.
func (d Detection) Center() image.Point {
	return image.Pt((d.Box.Min.X+d.Box.Max.X)/2, (d.Box.Min.Y+d.Box.Max.Y)/2)
}

// Area returns the bounding box area in pixels.
func (d Detection) Area() int {
	return d.Box.Dx() * d.Box.Dy()
}

// Detector is the interface for detection backends.
// Implementations apply their own confidence threshold: detections below
// it are dropped before they reach callers.
type Detector interface {
	// Detect finds items in the frame, in model output order.
	Detect(frame gocv.Mat) ([]Detection, error)

	// Close releases resources.
	Close() error
}

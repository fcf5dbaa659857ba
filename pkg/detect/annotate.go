package detect

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	boxColor      = color.RGBA{G: 255}
	labelColor    = color.RGBA{R: 255, G: 255, B: 255}
	centroidColor = color.RGBA{R: 255}
)

// Annotate draws bounding boxes, labels and centroids onto the frame
// for the operator display. The frame is modified in place.
func Annotate(frame *gocv.Mat, dets []Detection) {
	for _, d := range dets {
		gocv.Rectangle(frame, d.Box, boxColor, 2)

		textY := d.Box.Min.Y - 10
		if textY < 20 {
			textY = 20
		}
		gocv.PutText(frame,
			fmt.Sprintf("%s %.2f", d.Label, d.Confidence),
			image.Pt(d.Box.Min.X, textY),
			gocv.FontHersheySimplex, 0.6, labelColor, 2)

		gocv.Circle(frame, d.Center(), 4, centroidColor, -1)
	}
}

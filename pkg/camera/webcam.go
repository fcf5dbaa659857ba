package camera

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/pickpoint/go-pickvision/internal/log"
)

// Webcam captures frames from a local video device.
type Webcam struct {
	cap *gocv.VideoCapture
}

// Ensure Webcam implements Source
var _ Source = (*Webcam)(nil)

// Open opens the configured capture device.
func Open(cfg Config) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(cfg.DeviceIndex)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", cfg.DeviceIndex, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("camera: device %d not available", cfg.DeviceIndex)
	}

	if cfg.Width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	log.Info("camera: device opened", "index", cfg.DeviceIndex)
	return &Webcam{cap: cap}, nil
}

// Read captures the next frame. Returns ErrSourceClosed when the device
// stops producing frames.
func (w *Webcam) Read() (gocv.Mat, error) {
	frame := gocv.NewMat()
	if ok := w.cap.Read(&frame); !ok {
		frame.Close()
		return gocv.Mat{}, ErrSourceClosed
	}
	if frame.Empty() {
		frame.Close()
		return gocv.Mat{}, ErrSourceClosed
	}
	return frame, nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	return w.cap.Close()
}

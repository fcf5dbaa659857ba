package actuation

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/pickpoint/go-pickvision/internal/log"
	"github.com/pickpoint/go-pickvision/pkg/camera"
	"github.com/pickpoint/go-pickvision/pkg/detect"
)

// Runner drives the pipeline: frame to detector to tracker to
// dispatcher. Frames are processed strictly sequentially; one frame's
// commands are fully dispatched before the next frame is read. The
// device dwell blocks the loop; actuation events are rare next to the
// frame rate, so the stall is bounded.
type Runner struct {
	src      camera.Source
	detector detect.Detector
	tracker  *Tracker
	disp     *Dispatcher

	// OnFrame, when set, observes every frame and its detections after
	// dispatch (display, annotation). Returning false stops the run.
	// The frame is still owned by the runner.
	OnFrame func(frame *gocv.Mat, dets []detect.Detection) bool
}

// NewRunner wires the pipeline stages together.
func NewRunner(src camera.Source, detector detect.Detector, tracker *Tracker, disp *Dispatcher) *Runner {
	return &Runner{src: src, detector: detector, tracker: tracker, disp: disp}
}

// Run processes frames until the context is cancelled, the source is
// exhausted, or OnFrame requests a stop. Frame acquisition and inference
// failures are fatal for the session; per-command dispatch errors are
// logged and the loop continues.
func (r *Runner) Run(ctx context.Context) error {
	log.Info("pipeline started", "session", r.disp.Summary().ID)

	for {
		select {
		case <-ctx.Done():
			log.Info("pipeline stopped", "reason", "cancelled")
			return nil
		default:
		}

		frame, err := r.src.Read()
		if errors.Is(err, camera.ErrSourceClosed) {
			log.Info("pipeline stopped", "reason", "source exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("actuation: read frame: %w", err)
		}

		stop, err := r.processFrame(ctx, frame)
		if err != nil {
			return err
		}
		if stop {
			log.Info("pipeline stopped", "reason", "operator quit")
			return nil
		}
	}
}

// processFrame owns the frame for its whole lifetime.
func (r *Runner) processFrame(ctx context.Context, frame gocv.Mat) (stop bool, err error) {
	defer frame.Close()

	dets, err := r.detector.Detect(frame)
	if err != nil {
		return false, fmt.Errorf("actuation: detect: %w", err)
	}

	for _, cmd := range r.tracker.Observe(dets) {
		// Dispatch errors are per-event and non-fatal; Dispatch has
		// already logged them.
		_ = r.disp.Dispatch(ctx, cmd)
	}

	if r.OnFrame != nil && !r.OnFrame(&frame, dets) {
		return true, nil
	}
	return false, nil
}

package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/pickpoint/go-pickvision/internal/log"
)

// YOLOConfig holds YOLO detector configuration.
type YOLOConfig struct {
	ModelPath        string
	ConfidenceThresh float32
	NMSThresh        float32
	InputWidth       int
	InputHeight      int

	// Classes are the model's output class names, indexed by class ID.
	// Defaults to the COCO 80 when empty.
	Classes []string

	// AllowList restricts detections to these labels. Empty means every
	// model class passes (the behavior when no dataset file is supplied).
	AllowList []string
}

// DefaultYOLOConfig returns production defaults for YOLOv8.
func DefaultYOLOConfig() YOLOConfig {
	return YOLOConfig{
		ModelPath:        "models/yolov8s.onnx",
		ConfidenceThresh: 0.6,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}

// YOLODetector runs a YOLOv8 ONNX model for item detection.
type YOLODetector struct {
	net       gocv.Net
	config    YOLOConfig
	classes   []string
	allowed   map[string]bool
	mu        sync.Mutex
	inputSize image.Point
}

// Ensure YOLODetector implements Detector
var _ Detector = (*YOLODetector)(nil)

// NewYOLO creates a new YOLO item detector.
func NewYOLO(cfg YOLOConfig) (*YOLODetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("detect: model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("detect: failed to load model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	classes := cfg.Classes
	if len(classes) == 0 {
		classes = COCOClasses
	}

	var allowed map[string]bool
	if len(cfg.AllowList) > 0 {
		allowed = make(map[string]bool, len(cfg.AllowList))
		for _, label := range cfg.AllowList {
			allowed[label] = true
		}
	}

	log.Info("detect: model loaded", "path", cfg.ModelPath,
		"classes", len(classes), "threshold", cfg.ConfidenceThresh)

	return &YOLODetector{
		net:       net,
		config:    cfg,
		classes:   classes,
		allowed:   allowed,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Detect finds items in the frame.
func (d *YOLODetector) Detect(frame gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}

	imgW := float32(frame.Cols())
	imgH := float32(frame.Rows())

	blob := gocv.BlobFromImage(frame, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	return d.parseOutput(output, imgW, imgH), nil
}

// parseOutput parses the YOLOv8 output tensor.
// Output shape: [1, 4+C, N] - 4 bbox coords followed by C class scores,
// N candidate detections.
func (d *YOLODetector) parseOutput(output gocv.Mat, imgW, imgH float32) []Detection {
	var boxes []image.Rectangle
	var confidences []float32
	var classIDs []int

	rows := output.Cols() // candidate count
	cols := output.Rows() // 4 + class count

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil
	}

	for i := 0; i < rows; i++ {
		maxScore := float32(0)
		maxClassID := 0

		for c := 4; c < cols; c++ {
			score := data[c*rows+i]
			if score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}

		if maxScore < d.config.ConfidenceThresh {
			continue
		}

		// Center-format box, scaled back to image pixels
		cx := data[0*rows+i]
		cy := data[1*rows+i]
		w := data[2*rows+i]
		h := data[3*rows+i]

		x1 := int((cx - w/2) * imgW / float32(d.config.InputWidth))
		y1 := int((cy - h/2) * imgH / float32(d.config.InputHeight))
		x2 := int((cx + w/2) * imgW / float32(d.config.InputWidth))
		y2 := int((cy + h/2) * imgH / float32(d.config.InputHeight))

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		confidences = append(confidences, maxScore)
		classIDs = append(classIDs, maxClassID)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := gocv.NMSBoxes(boxes, confidences, d.config.ConfidenceThresh, d.config.NMSThresh)

	var detections []Detection
	for _, idx := range indices {
		label := "unknown"
		if id := classIDs[idx]; id < len(d.classes) {
			label = d.classes[id]
		}

		if d.allowed != nil && !d.allowed[label] {
			continue
		}

		detections = append(detections, Detection{
			Label:      label,
			Confidence: float64(confidences[idx]),
			Box:        boxes[idx],
		})
	}

	if len(detections) > 0 {
		log.Debug("detect: frame parsed", "items", len(detections))
	}

	return detections
}

// Close releases the detector resources.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// COCOClasses contains the 80 COCO class names.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

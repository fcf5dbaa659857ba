package detect

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestDetection_Center(t *testing.T) {
	cases := []struct {
		name string
		box  image.Rectangle
		want image.Point
	}{
		{"origin box", image.Rect(0, 0, 100, 50), image.Pt(50, 25)},
		{"offset box", image.Rect(10, 20, 110, 220), image.Pt(60, 120)},
		{"odd size rounds down", image.Rect(0, 0, 5, 5), image.Pt(2, 2)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Detection{Box: tc.box}
			if got := d.Center(); got != tc.want {
				t.Errorf("Center() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetection_Area(t *testing.T) {
	d := Detection{Box: image.Rect(10, 10, 30, 50)}
	if got := d.Area(); got != 800 {
		t.Errorf("Area() = %d, want 800", got)
	}
}

func TestMock_ScriptedFrames(t *testing.T) {
	frame1 := []Detection{{Label: "banana", Confidence: 0.9}}
	frame2 := []Detection{{Label: "apple", Confidence: 0.8}, {Label: "banana", Confidence: 0.95}}

	m := NewMock(frame1, frame2)

	var frame gocv.Mat // mock never touches the frame

	dets, err := m.Detect(frame)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(dets) != 1 || dets[0].Label != "banana" {
		t.Errorf("frame 1: got %v", dets)
	}

	dets, _ = m.Detect(frame)
	if len(dets) != 2 {
		t.Errorf("frame 2: got %d detections, want 2", len(dets))
	}

	// Script exhausted
	dets, _ = m.Detect(frame)
	if len(dets) != 0 {
		t.Errorf("exhausted script: got %v, want none", dets)
	}

	if m.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", m.Calls())
	}
}

// Package detection adapts computer-vision face detectors to face.Detection.
package detection

import (
	"errors"

	"github.com/teslashibe/go-speakviz/pkg/face"
	"github.com/teslashibe/go-speakviz/pkg/geometry"
)

// ErrModelNotFound is returned when the detector model file is missing.
var ErrModelNotFound = errors.New("detection: model file not found")

// ErrEmptyImage is returned when a frame decodes to an empty image.
var ErrEmptyImage = errors.New("detection: empty image")

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in the image. Boxes and landmarks are in pixels.
	Detect(jpeg []byte) ([]face.Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	NMSThresh        float64 // Non-maximum suppression threshold
	TopK             int     // Maximum candidates before NMS
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.3,
		TopK:             5000,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// yunetColumns is the width of one YuNet output row:
// 0-3 box (x, y, w, h), 4-13 five landmark (x, y) pairs, 14 score.
const yunetColumns = 15

// fromYuNetRow converts one YuNet output row into a detection.
// Landmark order is right eye, left eye, nose tip, right and left mouth corner.
func fromYuNetRow(row []float32) (face.Detection, bool) {
	if len(row) < yunetColumns {
		return face.Detection{}, false
	}
	pt := func(i int) geometry.Point {
		return geometry.Point{X: float64(row[i]), Y: float64(row[i+1])}
	}
	return face.Detection{
		Box: geometry.Box{
			X:      float64(row[0]),
			Y:      float64(row[1]),
			Width:  float64(row[2]),
			Height: float64(row[3]),
		},
		Score: float64(row[14]),
		Landmarks: &face.Landmarks{
			RightEye: []geometry.Point{pt(4)},
			LeftEye:  []geometry.Point{pt(6)},
			Nose:     []geometry.Point{pt(8)},
		},
	}, true
}

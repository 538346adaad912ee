package video

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-speakviz/pkg/detection"
	"github.com/teslashibe/go-speakviz/pkg/face"
)

// Grabber produces encoded frames.
type Grabber interface {
	CaptureJPEG() ([]byte, error)
}

// Pipeline pairs a frame grabber with a face detector.
type Pipeline struct {
	Grabber  Grabber
	Detector detection.Detector
}

// Next captures one frame and returns the faces found in it.
func (p *Pipeline) Next(ctx context.Context) ([]face.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jpeg, err := p.Grabber.CaptureJPEG()
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	dets, err := p.Detector.Detect(jpeg)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	return dets, nil
}

// Package video captures frames from a local camera and runs them through a
// face detector.
package video

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrNoFrame is returned when the capture device produced no frame.
var ErrNoFrame = errors.New("video: no frame available")

// Config holds capture settings.
type Config struct {
	Device  int `json:"device"`  // Capture device index
	Width   int `json:"width"`   // Frame width in pixels, 0 keeps the device default
	Height  int `json:"height"`  // Frame height in pixels, 0 keeps the device default
	Quality int `json:"quality"` // JPEG quality 1-100
}

// DefaultConfig returns 720p capture from the first camera.
func DefaultConfig() Config {
	return Config{
		Device:  0,
		Width:   1280,
		Height:  720,
		Quality: 85,
	}
}

// Camera wraps a gocv capture device.
type Camera struct {
	cfg   Config
	cap   *gocv.VideoCapture
	frame gocv.Mat
	mu    sync.Mutex
}

// Open starts capturing from cfg.Device.
func Open(cfg Config) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = DefaultConfig().Quality
	}
	return &Camera{
		cfg:   cfg,
		cap:   vc,
		frame: gocv.NewMat(),
	}, nil
}

// CaptureJPEG grabs one frame and encodes it as JPEG.
func (c *Camera) CaptureJPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.cap.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, ErrNoFrame
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, c.frame, []int{int(gocv.IMWriteJpegQuality), c.cfg.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close.
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// Close releases the capture device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame.Close()
	return c.cap.Close()
}

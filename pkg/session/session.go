// Package session owns a recording: it feeds per-frame face detections
// through a signal source into the metrics aggregator and produces the final
// spread report when recording stops.
package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/teslashibe/go-speakviz/pkg/metrics"
	"github.com/teslashibe/go-speakviz/pkg/signal"
	"github.com/teslashibe/go-speakviz/pkg/spread"
)

// Errors returned by Recorder.
var (
	ErrAlreadyRecording = errors.New("session: already recording")
	ErrNotRecording     = errors.New("session: not recording")
)

// DefaultSampleInterval is the polling interval of Run (10 Hz).
const DefaultSampleInterval = 100 * time.Millisecond

// Config holds recorder settings.
type Config struct {
	SampleInterval time.Duration
	Metrics        metrics.Config

	// Logger defaults to the global logger tagged with the component and backend.
	Logger *slog.Logger
}

// DefaultConfig returns the recommended recorder configuration.
func DefaultConfig() Config {
	return Config{
		SampleInterval: DefaultSampleInterval,
		Metrics:        metrics.DefaultConfig(),
	}
}

// Frame is emitted for every observed frame.
type Frame struct {
	SessionID string        `json:"session_id"`
	Index     int           `json:"index"`
	Signal    signal.Signal `json:"signal"`
	At        time.Time     `json:"at"`
}

// Info describes the recorder state.
type Info struct {
	ID               string    `json:"id,omitempty"`
	Backend          string    `json:"backend"`
	Recording        bool      `json:"recording"`
	StartedAt        time.Time `json:"started_at,omitempty"`
	Frames           int       `json:"frames"`
	EyeContactFrames int       `json:"eye_contact_frames"`
	Segments         int       `json:"segments"`
	SkippedTicks     int64     `json:"skipped_ticks"`
}

// Result is the outcome of a stopped recording.
type Result struct {
	ID               string            `json:"id"`
	StartedAt        time.Time         `json:"started_at"`
	StoppedAt        time.Time         `json:"stopped_at"`
	Frames           int               `json:"frames"`
	EyeContactFrames int               `json:"eye_contact_frames"`
	Segments         []metrics.Segment `json:"segments"`
	Verdict          string            `json:"verdict,omitempty"`

	// Report is nil when too few samples were collected.
	Report *spread.Report `json:"report,omitempty"`
}

// Duration returns how long the recording lasted.
func (r Result) Duration() time.Duration {
	return r.StoppedAt.Sub(r.StartedAt)
}

// Classification returns the report classification, or "" without a report.
func (r Result) Classification() string {
	if r.Report == nil {
		return ""
	}
	return string(r.Report.Classification)
}

// Listener receives recorder events. Callbacks run on the recording
// goroutine while frames are serialized, so they must not block or call back
// into Observe or Stop.
type Listener interface {
	FrameObserved(f Frame)
	SegmentFinalized(sessionID string, seg metrics.Segment)
	SessionStopped(res Result)
}

// Package signal turns a face detection into the per-frame signal the
// metrics aggregator consumes. The concrete Source is chosen once at
// startup to match the detector backend that is wired in.
package signal

import (
	"errors"
	"fmt"
	"math"

	"github.com/teslashibe/go-speakviz/pkg/face"
	"github.com/teslashibe/go-speakviz/pkg/gaze"
	"github.com/teslashibe/go-speakviz/pkg/orientation"
)

// Backend names accepted by New.
const (
	BackendLandmark = "landmark"
	BackendGesture  = "gesture"
)

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("signal: unknown backend")

// Signal is everything derived from one frame's face.
type Signal struct {
	orientation.Sample
	EyeContact bool `json:"eye_contact"`

	// Gaze is nil for the gesture backend, which has no direction.
	Gaze *gaze.Direction `json:"gaze,omitempty"`
}

// MaxMagnitude bounds every derived yaw, pitch and bearing. Larger values
// overflow the spread variance.
const MaxMagnitude = 1e6

// usable reports whether every field of s is finite and within MaxMagnitude.
func usable(s orientation.Sample) bool {
	for _, v := range []float64{s.Yaw, s.Pitch, s.Bearing} {
		if math.IsNaN(v) || math.Abs(v) > MaxMagnitude {
			return false
		}
	}
	return true
}

// Source derives a Signal from a detection. ok is false when the detection
// lacks the data this backend needs; callers treat that frame as having no face.
type Source interface {
	Name() string
	Derive(det face.Detection) (sig Signal, ok bool)
}

// New returns the Source for a backend name.
func New(backend string) (Source, error) {
	switch backend {
	case BackendLandmark, "":
		return LandmarkSource{}, nil
	case BackendGesture:
		return GestureSource{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// LandmarkSource derives signals from 68-point or 5-point landmark geometry.
type LandmarkSource struct{}

// Name implements Source.
func (LandmarkSource) Name() string { return BackendLandmark }

// Derive implements Source. Degenerate boxes are rejected: the neutral
// defaults the math falls back to would otherwise read as eye contact.
// Boxes small enough to blow yaw up to infinity are rejected too.
func (LandmarkSource) Derive(det face.Detection) (Signal, bool) {
	if det.Box.Degenerate() || !det.Landmarks.Complete() {
		return Signal{}, false
	}
	sample, ok := orientation.FromLandmarks(det.Landmarks, det.Box)
	if !ok || !usable(sample) {
		return Signal{}, false
	}
	dir := gaze.FromLandmarks(det.Landmarks, det.Box)
	return Signal{
		Sample:     sample,
		Gaze:       &dir,
		EyeContact: gaze.EyeContact(dir, sample.Yaw),
	}, true
}

// GestureSource derives signals from a rotation object and gesture tags.
type GestureSource struct{}

// Name implements Source.
func (GestureSource) Name() string { return BackendGesture }

// Derive implements Source.
func (GestureSource) Derive(det face.Detection) (Signal, bool) {
	sample, ok := orientation.FromRotation(det.Rotation)
	if !ok || !usable(sample) {
		return Signal{}, false
	}
	return Signal{
		Sample:     sample,
		EyeContact: gaze.FromGestures(det.Gestures),
	}, true
}

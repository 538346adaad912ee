// Package orientation estimates normalized head yaw and pitch per frame.
//
// Two estimators exist, one per detector backend. The landmark estimator
// derives yaw and pitch from the nose position relative to the face box and
// the eyes. The rotation estimator passes through angles that the detector
// has already computed.
package orientation

import (
	"github.com/teslashibe/go-speakviz/pkg/face"
	"github.com/teslashibe/go-speakviz/pkg/geometry"
)

// PitchLimit bounds the landmark-derived pitch to [-PitchLimit, PitchLimit].
const PitchLimit = 0.5

// Sample is the head orientation derived from one frame.
type Sample struct {
	Yaw        float64 `json:"yaw"`   // 0 = frontal, signed left/right
	Pitch      float64 `json:"pitch"` // 0 = level, signed up/down
	Bearing    float64 `json:"bearing,omitempty"`
	HasBearing bool    `json:"has_bearing,omitempty"`
}

// Yaw returns the nose's horizontal offset from the box center in units of
// half the box width. It is unbounded by construction; faces inside the box
// land roughly in [-1, 1]. Degenerate boxes yield 0.
func Yaw(nose geometry.Point, box geometry.Box) float64 {
	if box.Degenerate() {
		return 0
	}
	return (nose.X - box.Center().X) / (box.Width * 0.5)
}

// Pitch returns the nose's vertical offset below the eye center in units of
// box height, clamped to PitchLimit. Degenerate boxes yield 0.
func Pitch(nose, eyeCenter geometry.Point, box geometry.Box) float64 {
	if box.Degenerate() {
		return 0
	}
	return geometry.Clamp((nose.Y-eyeCenter.Y)/box.Height, -PitchLimit, PitchLimit)
}

// EyeCenter is the mean of the four eye-corner points.
func EyeCenter(lm *face.Landmarks) (geometry.Point, bool) {
	if lm == nil {
		return geometry.Point{}, false
	}
	l0, l3, okL := lm.LeftEyeCorners()
	r0, r3, okR := lm.RightEyeCorners()
	if !okL || !okR {
		return geometry.Point{}, false
	}
	return geometry.Point{
		X: (l0.X + l3.X + r0.X + r3.X) / 4,
		Y: (l0.Y + l3.Y + r0.Y + r3.Y) / 4,
	}, true
}

// FromLandmarks estimates yaw and pitch from landmarks and the face box.
// It returns false when required landmarks are missing. A degenerate box
// yields a neutral zero sample.
func FromLandmarks(lm *face.Landmarks, box geometry.Box) (Sample, bool) {
	nose, ok := lm.NoseTip()
	if !ok {
		return Sample{}, false
	}
	eyes, ok := EyeCenter(lm)
	if !ok {
		return Sample{}, false
	}
	return Sample{
		Yaw:   Yaw(nose, box),
		Pitch: Pitch(nose, eyes, box),
	}, true
}

// FromRotation extracts yaw, pitch and gaze bearing unchanged.
func FromRotation(rot *face.Rotation) (Sample, bool) {
	if rot == nil {
		return Sample{}, false
	}
	return Sample{
		Yaw:        rot.Angle.Yaw,
		Pitch:      rot.Angle.Pitch,
		Bearing:    rot.Gaze.Bearing,
		HasBearing: true,
	}, true
}

// Package gaze classifies where a subject is looking and whether that
// counts as eye contact with the camera.
package gaze

import (
	"math"

	"github.com/teslashibe/go-speakviz/pkg/face"
	"github.com/teslashibe/go-speakviz/pkg/geometry"
)

// Direction is a coarse gaze direction.
type Direction int

const (
	Straight Direction = iota
	Up
	Left
	Right
)

// String returns the upper-case label used in logs and reports.
func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return "STRAIGHT"
	}
}

// MarshalText encodes the direction as its label.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Classification thresholds on the box-normalized pupil position.
const (
	UpThreshold    = 0.30 // normalized y below this looks up
	RightThreshold = 0.38 // normalized x below this looks right (mirrored camera)
	LeftThreshold  = 0.62 // normalized x above this looks left

	// MaxEyeContactYaw is the largest |yaw| still counted as eye contact.
	MaxEyeContactYaw = 0.30
)

// Pupil returns the pupil proxy: the average of the midpoints of each eye's corners.
func Pupil(lm *face.Landmarks) (geometry.Point, bool) {
	if lm == nil {
		return geometry.Point{}, false
	}
	l0, l3, okL := lm.LeftEyeCorners()
	r0, r3, okR := lm.RightEyeCorners()
	if !okL || !okR {
		return geometry.Point{}, false
	}
	return geometry.Average(geometry.Average(l0, l3), geometry.Average(r0, r3)), true
}

// FromLandmarks classifies gaze direction from eye landmarks normalized
// against the face box. Degenerate boxes and missing eyes yield Straight.
func FromLandmarks(lm *face.Landmarks, box geometry.Box) Direction {
	if box.Degenerate() {
		return Straight
	}
	pupil, ok := Pupil(lm)
	if !ok {
		return Straight
	}

	nx := geometry.NormalizeClamped(pupil.X, box.X, box.Right())
	ny := geometry.NormalizeClamped(pupil.Y, box.Y, box.Bottom())

	switch {
	case ny < UpThreshold:
		return Up
	case nx < RightThreshold:
		return Right
	case nx > LeftThreshold:
		return Left
	default:
		return Straight
	}
}

// EyeContact combines gaze direction with head yaw.
func EyeContact(dir Direction, yaw float64) bool {
	return dir == Straight && math.Abs(yaw) < MaxEyeContactYaw
}

// FromGestures reports eye contact from a gesture-tag set: the subject must
// be both looking at and facing the camera.
func FromGestures(tags face.GestureSet) bool {
	return tags.Has(face.LookingCenter) && tags.Has(face.FacingCenter)
}

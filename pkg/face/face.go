// Package face defines the per-frame output of an external face detector:
// bounding boxes plus either landmark geometry or a rotation object with
// gesture tags, depending on which detector backend is wired in.
package face

import "github.com/teslashibe/go-speakviz/pkg/geometry"

// Landmarks holds the landmark groups the gaze and head-pose derivations need.
//
// 68-point layouts supply six points per eye (corners at index 0 and 3) and
// nine nose points. 5-point layouts such as YuNet supply one point per eye and
// a single nose tip.
type Landmarks struct {
	LeftEye  []geometry.Point `json:"left_eye"`
	RightEye []geometry.Point `json:"right_eye"`
	Nose     []geometry.Point `json:"nose"`
}

// LeftEyeCorners returns the two corner points of the left eye.
func (l *Landmarks) LeftEyeCorners() (geometry.Point, geometry.Point, bool) {
	return corners(l.LeftEye)
}

// RightEyeCorners returns the two corner points of the right eye.
func (l *Landmarks) RightEyeCorners() (geometry.Point, geometry.Point, bool) {
	return corners(l.RightEye)
}

// NoseTip returns the first nose point.
func (l *Landmarks) NoseTip() (geometry.Point, bool) {
	if l == nil || len(l.Nose) == 0 {
		return geometry.Point{}, false
	}
	return l.Nose[0], true
}

// Complete reports whether both eyes and the nose are present.
func (l *Landmarks) Complete() bool {
	if l == nil {
		return false
	}
	return len(l.LeftEye) > 0 && len(l.RightEye) > 0 && len(l.Nose) > 0
}

func corners(eye []geometry.Point) (geometry.Point, geometry.Point, bool) {
	switch {
	case len(eye) >= 4:
		return eye[0], eye[3], true
	case len(eye) >= 1:
		// Single-point eyes: the point is its own midpoint.
		return eye[0], eye[0], true
	default:
		return geometry.Point{}, geometry.Point{}, false
	}
}

// Angle is head rotation as reported by a rotation-capable detector.
type Angle struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// Gaze is eye-gaze direction independent of head pose.
type Gaze struct {
	Bearing  float64 `json:"bearing"`
	Strength float64 `json:"strength"`
}

// Rotation is the pre-computed rotation object of the gesture backend.
type Rotation struct {
	Angle Angle `json:"angle"`
	Gaze  Gaze  `json:"gaze"`
}

// Detection is a single face found in a frame. There is no identity across frames.
type Detection struct {
	Box       geometry.Box `json:"box"`
	Score     float64      `json:"score"`
	Landmarks *Landmarks   `json:"landmarks,omitempty"`
	Rotation  *Rotation    `json:"rotation,omitempty"`
	Gestures  GestureSet   `json:"gestures,omitempty"`
}

// SelectBest picks the best face from multiple detections.
// Priority: score * 0.7 + relative area * 0.3
func SelectBest(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}
	if len(dets) == 1 {
		return &dets[0]
	}

	maxArea := 0.0
	for _, d := range dets {
		if d.Box.Area() > maxArea {
			maxArea = d.Box.Area()
		}
	}

	bestScore := -1.0
	var best *Detection
	for i := range dets {
		rel := 0.0
		if maxArea > 0 {
			rel = dets[i].Box.Area() / maxArea
		}
		score := dets[i].Score*0.7 + rel*0.3
		if score > bestScore {
			bestScore = score
			best = &dets[i]
		}
	}
	return best
}

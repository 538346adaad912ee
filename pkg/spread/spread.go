// Package spread summarizes accumulated head-orientation history into
// population statistics and a rule-based engagement classification.
package spread

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/teslashibe/go-speakviz/pkg/metrics"
)

// Analysis thresholds.
const (
	// MinSamples is the minimum yaw history length required for a report.
	MinSamples = 10

	// HighYawSpread is the yaw standard deviation above which head movement
	// counts as high.
	HighYawSpread = 0.15

	// HighPitchSpread is reported alongside yaw but does not affect the
	// classification.
	HighPitchSpread = 0.08

	// GoodEyeContactRatio is the cumulative ratio for a positive verdict.
	GoodEyeContactRatio = 0.60
)

// Stats are population statistics over one history buffer.
type Stats struct {
	Mean   float64 `json:"mean"`
	Spread float64 `json:"spread"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	High   bool    `json:"high"`
}

// Thresholds echoes the limits the report was computed with.
type Thresholds struct {
	YawHigh   float64 `json:"yaw_high"`
	PitchHigh float64 `json:"pitch_high"`
}

// Report is the output of Analyze.
type Report struct {
	Samples        int            `json:"samples"`
	Yaw            Stats          `json:"yaw"`
	Pitch          Stats          `json:"pitch"`
	Bearing        *Stats         `json:"bearing,omitempty"`
	Classification Classification `json:"classification"`
	Explanation    string         `json:"explanation"`

	Segments     []metrics.Segment `json:"segments"`
	GoodSegments int               `json:"good_segments"`
	BadSegments  int               `json:"bad_segments"`

	EyeContactFrames int      `json:"eye_contact_frames"`
	TotalFrames      int      `json:"total_frames"`
	EyeContactRatio  *float64 `json:"eye_contact_ratio"`

	Thresholds Thresholds      `json:"thresholds"`
	History    metrics.History `json:"history"`
}

// Analyze computes a report from a snapshot. It returns false when the yaw
// history holds fewer than MinSamples values; that is an expected outcome,
// not an error. Analyze does not modify snap.
func Analyze(snap metrics.Snapshot) (Report, bool) {
	if len(snap.History.Yaw) < MinSamples || len(snap.History.Pitch) == 0 {
		return Report{}, false
	}

	yaw := stats(snap.History.Yaw, HighYawSpread)
	pitch := stats(snap.History.Pitch, HighPitchSpread)

	segments := make([]metrics.Segment, len(snap.Segments))
	copy(segments, snap.Segments)
	good := 0
	for _, s := range segments {
		if s.IsGood {
			good++
		}
	}

	class := Classify(yaw.Spread, good > 0)

	r := Report{
		Samples:          len(snap.History.Yaw),
		Yaw:              yaw,
		Pitch:            pitch,
		Classification:   class,
		Explanation:      class.Explanation(),
		Segments:         segments,
		GoodSegments:     good,
		BadSegments:      len(segments) - good,
		EyeContactFrames: snap.EyeContactFrames,
		TotalFrames:      snap.Frames,
		Thresholds: Thresholds{
			YawHigh:   HighYawSpread,
			PitchHigh: HighPitchSpread,
		},
		History: metrics.History{
			Yaw:     clone(snap.History.Yaw),
			Pitch:   clone(snap.History.Pitch),
			Bearing: clone(snap.History.Bearing),
		},
	}
	if ratio, ok := metrics.Ratio(snap.EyeContactFrames, snap.Frames); ok {
		r.EyeContactRatio = &ratio
	}
	if len(snap.History.Bearing) > 0 {
		// Bearing is in radians; no high threshold applies.
		b := stats(snap.History.Bearing, 0)
		b.High = false
		r.Bearing = &b
	}
	return r, true
}

func stats(values []float64, highAbove float64) Stats {
	mean, std := stat.PopMeanStdDev(values, nil)
	return Stats{
		Mean:   mean,
		Spread: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		High:   std > highAbove,
	}
}

func clone(values []float64) []float64 {
	if values == nil {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// EyeContactVerdict returns the cumulative eye-contact verdict. It returns
// false when no frames were observed.
func EyeContactVerdict(eyeContactFrames, totalFrames int) (string, bool) {
	ratio, ok := metrics.Ratio(eyeContactFrames, totalFrames)
	if !ok {
		return "", false
	}
	if ratio >= GoodEyeContactRatio {
		return "Good eye contact!", true
	}
	return "Needs work (look at the lens more)", true
}

package metrics

// Sample is the per-frame input to the aggregator.
type Sample struct {
	Yaw        float64
	Pitch      float64
	Bearing    float64
	HasBearing bool
	EyeContact bool
}

// Segment is a finalized window of frames with its eye-contact verdict.
// Start and End are inclusive observed-frame indices.
type Segment struct {
	Start            int     `json:"start"`
	End              int     `json:"end"`
	Duration         int     `json:"duration"`
	EyeContactFrames int     `json:"eye_contact_frames"`
	EyeContactRatio  float64 `json:"eye_contact_ratio"`
	IsGood           bool    `json:"is_good_segment"`
}

// CurrentSegment is the accumulator for the segment being built.
type CurrentSegment struct {
	Start            int `json:"start"`
	EyeContactFrames int `json:"eye_contact_frames"`
	TotalFrames      int `json:"total_frames"`
}

// History is a copy of the rolling buffers, oldest first.
// Bearing only holds samples that carried a gaze bearing.
type History struct {
	Yaw     []float64 `json:"yaw"`
	Pitch   []float64 `json:"pitch"`
	Bearing []float64 `json:"bearing,omitempty"`
}

// Len returns the number of retained yaw/pitch samples.
func (h History) Len() int {
	return len(h.Yaw)
}

// Snapshot is a point-in-time copy of aggregator state. It shares no memory
// with the aggregator and is safe to hand to readers.
type Snapshot struct {
	History          History        `json:"history"`
	Segments         []Segment      `json:"segments"`
	Current          CurrentSegment `json:"current_segment"`
	Frames           int            `json:"frames"`
	EyeContactFrames int            `json:"eye_contact_frames"`
	HistoryCap       int            `json:"history_cap"`
}

// Observation reports what a single Observe call did.
type Observation struct {
	Frame   int      // index assigned to the observed frame
	Segment *Segment // segment finalized by this frame, if any
}

// Ratio returns part/total, or false when total is zero.
func Ratio(part, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	return float64(part) / float64(total), true
}

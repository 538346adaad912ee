// Package metrics accumulates per-frame head-pose and eye-contact signals
// into bounded rolling history and fixed-size eye-contact segments.
//
// Frame indices are 1-based and count observed frames only: a tick with no
// usable face is never observed and does not advance the index. Segments are
// contiguous, each starting at the previous segment's End + 1.
package metrics

import "sync"

// Aggregator is the stateful per-session accumulator. It is safe for
// concurrent use, but callers should serialize Observe calls so that frame
// order is well defined.
type Aggregator struct {
	mu sync.RWMutex

	historyCap int
	yaw        window
	pitch      window
	bearing    window

	segments []Segment
	current  CurrentSegment

	nextFrame        int
	frames           int
	eyeContactFrames int
}

// NewAggregator creates an aggregator. A non-positive HistoryCap falls back
// to DefaultHistoryCap.
func NewAggregator(cfg Config) *Aggregator {
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = DefaultHistoryCap
	}
	a := &Aggregator{historyCap: cfg.HistoryCap}
	a.resetAllLocked()
	return a
}

// Observe records one frame's signals. It appends to the rolling history,
// updates the cumulative and current-segment counters, and finalizes the
// current segment once it reaches SegmentFrames.
func (a *Aggregator) Observe(s Sample) Observation {
	a.mu.Lock()
	defer a.mu.Unlock()

	frame := a.nextFrame
	a.nextFrame++

	a.yaw.push(s.Yaw)
	a.pitch.push(s.Pitch)
	if s.HasBearing {
		a.bearing.push(s.Bearing)
	}

	a.frames++
	a.current.TotalFrames++
	if s.EyeContact {
		a.eyeContactFrames++
		a.current.EyeContactFrames++
	}

	obs := Observation{Frame: frame}
	if a.current.TotalFrames >= SegmentFrames {
		seg := a.finalizeLocked()
		obs.Segment = &seg
	}
	return obs
}

// FinalizeCurrentSegment flushes a partial trailing segment. Call it once
// when recording stops, before the final analysis. It is a no-op when the
// current segment is empty.
func (a *Aggregator) FinalizeCurrentSegment() (Segment, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current.TotalFrames == 0 {
		return Segment{}, false
	}
	return a.finalizeLocked(), true
}

// finalizeLocked appends the current segment and starts the next one at the
// frame after its end. Requires TotalFrames > 0.
func (a *Aggregator) finalizeLocked() Segment {
	cur := a.current
	ratio, _ := Ratio(cur.EyeContactFrames, cur.TotalFrames)
	seg := Segment{
		Start:            cur.Start,
		End:              cur.Start + cur.TotalFrames - 1,
		Duration:         cur.TotalFrames,
		EyeContactFrames: cur.EyeContactFrames,
		EyeContactRatio:  ratio,
		IsGood:           ratio >= GoodSegmentRatio,
	}
	a.segments = append(a.segments, seg)
	a.current = CurrentSegment{Start: seg.End + 1}
	return seg
}

// ResetCounters clears the cumulative frame and eye-contact counters only.
// History, finalized segments and the partial segment are kept so that
// segment indices stay contiguous.
func (a *Aggregator) ResetCounters() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frames = 0
	a.eyeContactFrames = 0
}

// ResetAll returns the aggregator to its initial state. Call it at the start
// of every recording session.
func (a *Aggregator) ResetAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetAllLocked()
}

func (a *Aggregator) resetAllLocked() {
	a.yaw = newWindow(a.historyCap)
	a.pitch = newWindow(a.historyCap)
	a.bearing = newWindow(a.historyCap)
	a.segments = nil
	a.nextFrame = 1
	a.current = CurrentSegment{Start: a.nextFrame}
	a.frames = 0
	a.eyeContactFrames = 0
}

// Snapshot returns a deep copy of the current state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	segments := make([]Segment, len(a.segments))
	copy(segments, a.segments)

	return Snapshot{
		History: History{
			Yaw:     a.yaw.snapshot(),
			Pitch:   a.pitch.snapshot(),
			Bearing: a.bearing.snapshot(),
		},
		Segments:         segments,
		Current:          a.current,
		Frames:           a.frames,
		EyeContactFrames: a.eyeContactFrames,
		HistoryCap:       a.historyCap,
	}
}

// Segments returns a copy of the finalized segments.
func (a *Aggregator) Segments() []Segment {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Segment, len(a.segments))
	copy(out, a.segments)
	return out
}

// Current returns the in-progress segment accumulator.
func (a *Aggregator) Current() CurrentSegment {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Frames returns the cumulative observed and eye-contact frame counts.
func (a *Aggregator) Frames() (frames, eyeContactFrames int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frames, a.eyeContactFrames
}

// HistoryLen returns the number of retained yaw/pitch samples.
func (a *Aggregator) HistoryLen() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.yaw.len()
}

// HistoryCap returns the configured retention window.
func (a *Aggregator) HistoryCap() int {
	return a.historyCap
}

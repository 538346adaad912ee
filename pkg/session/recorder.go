package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-speakviz/internal/log"
	"github.com/teslashibe/go-speakviz/pkg/face"
	"github.com/teslashibe/go-speakviz/pkg/metrics"
	"github.com/teslashibe/go-speakviz/pkg/signal"
	"github.com/teslashibe/go-speakviz/pkg/spread"
)

// FrameSource yields the detections for one tick.
type FrameSource interface {
	Next(ctx context.Context) ([]face.Detection, error)
}

// Recorder is the single owner of a metrics.Aggregator.
type Recorder struct {
	cfg    Config
	source signal.Source
	agg    *metrics.Aggregator
	logger *slog.Logger

	// frameMu serializes Observe and Stop so that frames are ordered and
	// the final flush never races a tick.
	frameMu sync.Mutex

	mu        sync.RWMutex
	id        string
	startedAt time.Time
	recording bool
	listeners []Listener

	inFlight atomic.Bool
	skipped  atomic.Int64
}

// New creates a recorder that derives signals with source.
func New(cfg Config, source signal.Source) *Recorder {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = DefaultSampleInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.With("component", "session", "backend", source.Name())
	}
	return &Recorder{
		cfg:    cfg,
		source: source,
		agg:    metrics.NewAggregator(cfg.Metrics),
		logger: logger,
	}
}

// AddListener registers l for recorder events.
func (r *Recorder) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Start begins a new recording and clears all accumulated state.
func (r *Recorder) Start() (string, error) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return "", ErrAlreadyRecording
	}

	r.agg.ResetAll()
	r.skipped.Store(0)
	r.id = uuid.NewString()
	r.startedAt = time.Now()
	r.recording = true

	r.logger.Info("recording started", "session", r.id)
	return r.id, nil
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recording
}

// Observe processes one tick's detections. It returns false when nothing was
// recorded: not recording, no face, or a face the source cannot use.
func (r *Recorder) Observe(dets []face.Detection) (metrics.Observation, bool) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	r.mu.RLock()
	recording, id, listeners := r.recording, r.id, r.listeners
	r.mu.RUnlock()
	if !recording {
		return metrics.Observation{}, false
	}

	best := face.SelectBest(dets)
	if best == nil {
		return metrics.Observation{}, false
	}
	sig, ok := r.source.Derive(*best)
	if !ok {
		return metrics.Observation{}, false
	}

	obs := r.agg.Observe(metrics.Sample{
		Yaw:        sig.Yaw,
		Pitch:      sig.Pitch,
		Bearing:    sig.Bearing,
		HasBearing: sig.HasBearing,
		EyeContact: sig.EyeContact,
	})

	frame := Frame{SessionID: id, Index: obs.Frame, Signal: sig, At: time.Now()}
	for _, l := range listeners {
		l.FrameObserved(frame)
		if obs.Segment != nil {
			l.SegmentFinalized(id, *obs.Segment)
		}
	}
	if obs.Segment != nil {
		r.logger.Debug("segment finalized",
			"session", id,
			"start", obs.Segment.Start,
			"end", obs.Segment.End,
			"ratio", obs.Segment.EyeContactRatio,
			"good", obs.Segment.IsGood)
	}
	return obs, true
}

// Run polls src every SampleInterval until ctx is done. A tick is skipped
// while the previous one is still in flight. Run waits for the last tick
// before returning.
func (r *Recorder) Run(ctx context.Context, src FrameSource) {
	ticker := time.NewTicker(r.cfg.SampleInterval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.inFlight.CompareAndSwap(false, true) {
				r.skipped.Add(1)
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer r.inFlight.Store(false)
				r.tick(ctx, src)
			}()
		}
	}
}

func (r *Recorder) tick(ctx context.Context, src FrameSource) {
	dets, err := src.Next(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("frame source failed", "error", err)
		}
		return
	}
	r.Observe(dets)
}

// SkippedTicks returns how many ticks were dropped because the previous one
// was still running.
func (r *Recorder) SkippedTicks() int64 {
	return r.skipped.Load()
}

// Stop ends the recording. It flushes the partial trailing segment and then
// runs the spread analysis.
func (r *Recorder) Stop() (Result, error) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return Result{}, ErrNotRecording
	}
	r.recording = false
	id, startedAt, listeners := r.id, r.startedAt, r.listeners
	r.mu.Unlock()

	if seg, ok := r.agg.FinalizeCurrentSegment(); ok {
		for _, l := range listeners {
			l.SegmentFinalized(id, seg)
		}
	}

	snap := r.agg.Snapshot()
	res := Result{
		ID:               id,
		StartedAt:        startedAt,
		StoppedAt:        time.Now(),
		Frames:           snap.Frames,
		EyeContactFrames: snap.EyeContactFrames,
		Segments:         snap.Segments,
	}
	res.Verdict, _ = spread.EyeContactVerdict(snap.EyeContactFrames, snap.Frames)
	if report, ok := spread.Analyze(snap); ok {
		res.Report = &report
	}

	r.logger.Info("recording stopped",
		"session", id,
		"frames", res.Frames,
		"segments", len(res.Segments),
		"classification", res.Classification(),
		"skipped_ticks", r.skipped.Load())

	for _, l := range listeners {
		l.SessionStopped(res)
	}
	return res, nil
}

// Report runs the spread analysis over the current state without changing it.
func (r *Recorder) Report() (spread.Report, bool) {
	return spread.Analyze(r.agg.Snapshot())
}

// Snapshot returns a copy of the aggregator state.
func (r *Recorder) Snapshot() metrics.Snapshot {
	return r.agg.Snapshot()
}

// Info returns the current recorder state.
func (r *Recorder) Info() Info {
	r.mu.RLock()
	info := Info{
		ID:        r.id,
		Backend:   r.source.Name(),
		Recording: r.recording,
		StartedAt: r.startedAt,
	}
	r.mu.RUnlock()

	info.Frames, info.EyeContactFrames = r.agg.Frames()
	info.Segments = len(r.agg.Segments())
	info.SkippedTicks = r.skipped.Load()
	return info
}

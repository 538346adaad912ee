package spread

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-speakviz/pkg/metrics"
)

// speakerSession feeds 30 frames of steady eye contact followed by 15
// frames looking away, then flushes the trailing segment.
func speakerSession(t *testing.T) *metrics.Aggregator {
	t.Helper()
	a := metrics.NewAggregator(metrics.DefaultConfig())
	for i := 0; i < 30; i++ {
		a.Observe(metrics.Sample{Yaw: 0.05, Pitch: 0.02, EyeContact: true})
	}
	for i := 0; i < 15; i++ {
		a.Observe(metrics.Sample{Yaw: 0.40, Pitch: 0.10})
	}
	_, ok := a.FinalizeCurrentSegment()
	require.True(t, ok)
	return a
}

func TestAnalyze_SpeakerSession(t *testing.T) {
	a := speakerSession(t)

	segs := a.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, 30, segs[0].Duration)
	assert.InDelta(t, 1.0, segs[0].EyeContactRatio, 1e-12)
	assert.True(t, segs[0].IsGood)
	assert.Equal(t, 15, segs[1].Duration)
	assert.InDelta(t, 0.0, segs[1].EyeContactRatio, 1e-12)
	assert.False(t, segs[1].IsGood)

	r, ok := Analyze(a.Snapshot())
	require.True(t, ok)

	assert.Equal(t, 45, r.Samples)
	assert.InDelta(t, 0.05*30/45+0.40*15/45, r.Yaw.Mean, 1e-9)
	wantYawSpread := math.Sqrt(2.0/9.0) * 0.35
	assert.InDelta(t, wantYawSpread, r.Yaw.Spread, 1e-9)
	assert.Greater(t, r.Yaw.Spread, HighYawSpread)
	assert.True(t, r.Yaw.High)

	wantPitchSpread := math.Sqrt(2.0/9.0) * 0.08
	assert.InDelta(t, wantPitchSpread, r.Pitch.Spread, 1e-9)
	assert.False(t, r.Pitch.High)

	assert.InDelta(t, 0.05, r.Yaw.Min, 1e-12)
	assert.InDelta(t, 0.40, r.Yaw.Max, 1e-12)
	assert.Equal(t, 1, r.GoodSegments)
	assert.Equal(t, 1, r.BadSegments)

	assert.Equal(t, DeliberateEngagement, r.Classification)
	assert.Equal(t, DeliberateEngagement.Explanation(), r.Explanation)

	require.NotNil(t, r.EyeContactRatio)
	assert.InDelta(t, 30.0/45.0, *r.EyeContactRatio, 1e-12)
	assert.Nil(t, r.Bearing)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	a := metrics.NewAggregator(metrics.DefaultConfig())
	for i := 0; i < MinSamples-1; i++ {
		a.Observe(metrics.Sample{Yaw: float64(i)})
	}
	_, ok := Analyze(a.Snapshot())
	assert.False(t, ok)

	a.Observe(metrics.Sample{})
	_, ok = Analyze(a.Snapshot())
	assert.True(t, ok)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := speakerSession(t)
	snap := a.Snapshot()
	before := a.Snapshot()

	first, ok := Analyze(snap)
	require.True(t, ok)
	second, ok := Analyze(snap)
	require.True(t, ok)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ (-first +second):\n%s", diff)
	}
	b1, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(first)
	require.NoError(t, err)
	b2, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(b1), string(b2))

	if diff := cmp.Diff(before, snap); diff != "" {
		t.Errorf("Analyze mutated its input (-before +after):\n%s", diff)
	}
}

func TestAnalyze_ReportDoesNotAliasSnapshot(t *testing.T) {
	snap := speakerSession(t).Snapshot()
	r, ok := Analyze(snap)
	require.True(t, ok)

	r.History.Yaw[0] = 42
	r.Segments[0].Start = 42
	assert.Equal(t, 0.05, snap.History.Yaw[0])
	assert.Equal(t, 1, snap.Segments[0].Start)
}

func TestAnalyze_NoFramesRatioNil(t *testing.T) {
	snap := metrics.Snapshot{
		History: metrics.History{
			Yaw:   make([]float64, MinSamples),
			Pitch: make([]float64, MinSamples),
		},
	}
	r, ok := Analyze(snap)
	require.True(t, ok)
	assert.Nil(t, r.EyeContactRatio)
	assert.Equal(t, PoorEngagement, r.Classification)
}

func TestAnalyze_BearingStats(t *testing.T) {
	a := metrics.NewAggregator(metrics.DefaultConfig())
	for i := 0; i < 12; i++ {
		a.Observe(metrics.Sample{Bearing: float64(i * 10), HasBearing: true})
	}
	r, ok := Analyze(a.Snapshot())
	require.True(t, ok)
	require.NotNil(t, r.Bearing)
	assert.InDelta(t, 55.0, r.Bearing.Mean, 1e-9)
	assert.InDelta(t, 0.0, r.Bearing.Min, 1e-12)
	assert.InDelta(t, 110.0, r.Bearing.Max, 1e-12)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		yawSpread float64
		good      bool
		want      Classification
	}{
		{"high spread with good segment", 0.2, true, DeliberateEngagement},
		{"high spread without good segment", 0.2, false, LikelyDistraction},
		{"low spread with good segment", 0.1, true, FocusedCommunication},
		{"low spread without good segment", 0.1, false, PoorEngagement},
		{"threshold is not high", HighYawSpread, true, FocusedCommunication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.yawSpread, tt.good)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.Explanation())
		})
	}
}

func TestClassify_PitchIgnored(t *testing.T) {
	// Same yaw, very different pitch: identical classification.
	build := func(pitch float64) metrics.Snapshot {
		a := metrics.NewAggregator(metrics.DefaultConfig())
		for i := 0; i < 20; i++ {
			p := 0.0
			if i%2 == 0 {
				p = pitch
			}
			a.Observe(metrics.Sample{Yaw: 0.01, Pitch: p, EyeContact: true})
		}
		return a.Snapshot()
	}
	low, ok := Analyze(build(0.0))
	require.True(t, ok)
	high, ok := Analyze(build(0.5))
	require.True(t, ok)

	assert.True(t, high.Pitch.High)
	assert.Equal(t, low.Classification, high.Classification)
}

func TestEyeContactVerdict(t *testing.T) {
	tests := []struct {
		eye, total int
		want       string
		ok         bool
	}{
		{60, 100, "Good eye contact!", true},
		{59, 100, "Needs work (look at the lens more)", true},
		{0, 0, "", false},
	}
	for _, tt := range tests {
		got, ok := EyeContactVerdict(tt.eye, tt.total)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestReport_Text(t *testing.T) {
	r, ok := Analyze(speakerSession(t).Snapshot())
	require.True(t, ok)

	text := r.Text()
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 9)

	assert.Equal(t, "=== HEAD ORIENTATION SPREAD ANALYSIS ===", lines[0])
	assert.Equal(t, "Yaw Spread: 0.165 (HIGH)", lines[1])
	assert.Equal(t, "Pitch Spread: 0.038 (normal)", lines[2])
	assert.Equal(t, "Yaw Range: 0.05 to 0.40", lines[3])
	assert.Equal(t, "Pitch Range: 0.02 to 0.10", lines[4])
	assert.Equal(t, "Eye Contact Segments: 2 total (1 good, 1 poor)", lines[5])
	assert.Equal(t, "Classification: Deliberate Audience Engagement", lines[6])
	assert.Contains(t, lines[7], "intentional inclusion")
	assert.Equal(t, "Eye Contact: 30/45 frames (67%) Good eye contact!", lines[8])
}

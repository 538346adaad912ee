package metrics

// Segment bookkeeping constants.
const (
	// SegmentFrames is the frame quota after which a segment is finalized.
	SegmentFrames = 30

	// GoodSegmentRatio is the minimum eye-contact ratio of a good segment.
	GoodSegmentRatio = 0.6
)

// DefaultHistoryCap is the default retention window of the rolling history.
// At the default 100ms sampling interval this covers 100 seconds.
const DefaultHistoryCap = 1000

// Config holds aggregator tuning.
type Config struct {
	// HistoryCap bounds each rolling history buffer. Oldest samples are evicted first.
	HistoryCap int
}

// DefaultConfig returns the recommended aggregator configuration.
func DefaultConfig() Config {
	return Config{
		HistoryCap: DefaultHistoryCap,
	}
}

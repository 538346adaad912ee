package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/teslashibe/go-speakviz/internal/log"
	"github.com/teslashibe/go-speakviz/pkg/metrics"
	"github.com/teslashibe/go-speakviz/pkg/session"
)

// saveTimeout bounds a single Save issued from a recorder callback.
const saveTimeout = 5 * time.Second

// Sink saves every stopped session. It implements session.Listener.
type Sink struct {
	store  *Store
	logger *slog.Logger
}

// NewSink returns a listener that persists results into s.
func NewSink(s *Store) *Sink {
	return &Sink{store: s, logger: log.With("component", "store")}
}

// FrameObserved implements session.Listener.
func (*Sink) FrameObserved(session.Frame) {}

// SegmentFinalized implements session.Listener.
func (*Sink) SegmentFinalized(string, metrics.Segment) {}

// SessionStopped implements session.Listener.
func (k *Sink) SessionStopped(res session.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := k.store.Save(ctx, res); err != nil {
		k.logger.Error("save report failed", "session", res.ID, "error", err)
		return
	}
	k.logger.Info("report saved", "session", res.ID, "classification", res.Classification())
}

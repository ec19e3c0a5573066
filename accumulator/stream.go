package accumulator

import (
	"context"
	"time"

	"github.com/kbukum/transcriptkit/errors"
	"github.com/kbukum/transcriptkit/logger"
)

// Drive consumes a tagged event stream on a single goroutine until the
// channel closes or the context is canceled. It is the single-writer
// confinement helper for callers bridging from an asynchronous
// transport: all mutations for the session funnel through this one
// consumer.
//
// Rejected and invalid events are logged and dropped — the accumulator
// never self-retries — while the stream keeps flowing.
func (a *Accumulator) Drive(ctx context.Context, events <-chan Event) error {
	started := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				a.log.Debug("event stream drained", logger.DurationFields("drive", time.Since(started)))
				return nil
			}
			a.dispatch(ev)
		}
	}
}

func (a *Accumulator) dispatch(ev Event) {
	switch ev.Kind {
	case EventBoundary:
		a.ForceBoundary()
	case EventReset:
		a.Reset()
	default:
		if _, err := a.Ingest(ev); err != nil {
			if errors.IsRejected(err) {
				// Already logged at warn by the reconciler.
				return
			}
			a.log.Warn("event dropped", logger.ErrorFields("ingest", err))
		}
	}
}

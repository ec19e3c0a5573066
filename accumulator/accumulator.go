package accumulator

import (
	"sync"
	"time"

	"github.com/kbukum/transcriptkit/errors"
	"github.com/kbukum/transcriptkit/logger"
	"github.com/kbukum/transcriptkit/observability"
	"github.com/kbukum/transcriptkit/util"
)

// Accumulator reconciles one session's stream of segment hypotheses into
// canonical transcript state. One instance owns one session; instances
// share nothing. All mutating operations are serialized on an internal
// mutex — exactly one ordered event stream per session is the contract,
// and the mutex enforces it rather than merely documenting it.
type Accumulator struct {
	mu  sync.Mutex
	cfg Config
	log *logger.Logger
	now func() time.Time

	metrics *observability.AccumulatorMetrics

	store    *store
	liveEdge float64
	fence    float64

	snapshots      []*snapshot
	expiredCommits int64

	proj projections
}

// Option configures an Accumulator at construction.
type Option func(*Accumulator)

// WithLogger sets the logger. Defaults to the registered "accumulator"
// component logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Accumulator) { a.log = l }
}

// WithMetrics attaches metric instruments. A nil handle disables
// recording.
func WithMetrics(m *observability.AccumulatorMetrics) Option {
	return func(a *Accumulator) { a.metrics = m }
}

// WithClock overrides the time source. Snapshot TTL evaluation and
// segment diagnostics use it; tests substitute a fake clock.
func WithClock(now func() time.Time) Option {
	return func(a *Accumulator) { a.now = now }
}

// New creates an accumulator for a single session. Zero-value config
// fields take their defaults; invalid configuration is fatal here and
// only here.
func New(cfg Config, opts ...Option) (*Accumulator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Accumulator{
		cfg:   cfg,
		now:   time.Now,
		store: newStore(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Get("accumulator")
	}
	a.proj.invalidate()
	return a, nil
}

// Ingest reconciles one hypothesis event. Partial and final events are
// classified against existing segments under the timestamp tolerance and
// applied; the live edge and fence advance as a consequence. Boundary
// and reset events are not accepted here — use ForceBoundary and Reset,
// or Drive for a full tagged stream.
//
// A rejected mutation on a locked segment returns the REJECTED_LOCKED
// error alongside a Result describing the outcome; the locked segment is
// untouched. Invalid events are rejected before any mutation. Neither is
// retried here; retry policy belongs to the upstream transport.
func (a *Accumulator) Ingest(ev Event) (Result, error) {
	switch ev.Kind {
	case EventPartial, EventFinal:
	default:
		return Result{}, errors.InvalidInput("kind", "ingest accepts partial and final events only").
			WithDetail("kind", string(ev.Kind))
	}
	if err := validateRange(ev.Start, ev.End); err != nil {
		return Result{}, err
	}
	ev.Text = util.CleanText(ev.Text)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.expireSnapshots(a.now())

	if ev.Kind == EventFinal {
		if rescued, merged, err := a.recoverFromSnapshots(ev); merged {
			res := Result{Outcome: OutcomeRecovered, Rescued: rescued}
			res.NewlyLocked = a.advanceLiveEdge(ev.End)
			if seg := a.store.match(ev.Start, ev.End, a.cfg.TimestampToleranceSeconds); seg != nil {
				res.Segment = *seg
			}
			a.metrics.RecordIngest(string(OutcomeRecovered))
			return res, err
		}
	}

	return a.reconcile(ev)
}

// reconcile applies the ordinary classify-and-mutate path. A final is
// confirmed content: its segment locks on ingest rather than waiting
// for the fence, so the stable transcript reflects it immediately and
// no later partial can revise it. Caller holds the mutex.
func (a *Accumulator) reconcile(ev Event) (Result, error) {
	tol := a.cfg.TimestampToleranceSeconds
	class, seg := classify(a.store, ev.Start, ev.End, ev.Text, tol)

	var res Result
	switch class {
	case classInsert:
		now := a.now()
		created := &Segment{
			Start: ev.Start, End: ev.End, Text: ev.Text,
			Version: 1, FirstSeenAt: now, LastUpdatedAt: now,
		}
		if ev.Kind == EventFinal {
			created.Locked = true
		}
		a.store.insert(created)
		a.proj.invalidate()
		res = Result{Outcome: OutcomeInserted}
		if created.Locked {
			res.NewlyLocked++
			a.metrics.RecordLocked(1)
		}
		res.NewlyLocked += a.advanceLiveEdge(ev.End)
		res.Segment = *created

	case classUpdate:
		seg.Text = ev.Text
		seg.Version++
		seg.LastUpdatedAt = a.now()
		res = Result{Outcome: OutcomeUpdated}
		if ev.Kind == EventFinal {
			seg.Locked = true
			res.NewlyLocked++
			a.metrics.RecordLocked(1)
		}
		a.proj.invalidate()
		res.NewlyLocked += a.advanceLiveEdge(ev.End)
		res.Segment = *seg

	case classDuplicate:
		res = Result{Outcome: OutcomeDuplicate}
		// A final confirming already-held text still locks it.
		if ev.Kind == EventFinal && !seg.Locked {
			seg.Locked = true
			a.proj.invalidate()
			res.NewlyLocked++
			a.metrics.RecordLocked(1)
		}
		res.Segment = *seg

	case classRejectLocked:
		a.log.Warn("mutation rejected: segment is locked", logger.RangeFields(seg.Start, seg.End))
		a.metrics.RecordIngest(string(OutcomeRejectedLocked))
		return Result{Outcome: OutcomeRejectedLocked, Segment: *seg},
			errors.RejectedLocked(seg.Start, seg.End)
	}

	if a.cfg.Debug {
		a.log.Debug("event reconciled", map[string]interface{}{
			logger.FieldOutcome:  string(res.Outcome),
			logger.FieldStart:    ev.Start,
			logger.FieldEnd:      ev.End,
			logger.FieldFence:    a.fence,
			logger.FieldLiveEdge: a.liveEdge,
		})
	}
	a.metrics.RecordIngest(string(res.Outcome))
	return res, nil
}

// Reset clears all session state atomically: segments, snapshots, fence,
// live edge, caches, and counters. Issued by the session-lifecycle owner
// at session start/stop.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.clear()
	a.snapshots = nil
	a.liveEdge = 0
	a.fence = 0
	a.expiredCommits = 0
	a.proj.invalidate()
	a.log.Info("session state reset")
}

// Stats returns a point-in-time summary of accumulator state.
func (a *Accumulator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := Stats{
		Fence:                  a.fence,
		LiveEdge:               a.liveEdge,
		SnapshotsOpen:          len(a.snapshots),
		SnapshotExpiredCommits: a.expiredCommits,
	}
	for _, seg := range a.store.all() {
		st.TotalSegments++
		if seg.Locked {
			st.LockedSegments++
		} else {
			st.UnlockedSegments++
		}
		st.TotalDuration += seg.Duration()
	}
	return st
}

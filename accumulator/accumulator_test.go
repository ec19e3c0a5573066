package accumulator

import (
	"testing"
	"time"

	"github.com/kbukum/transcriptkit/errors"
	"github.com/kbukum/transcriptkit/logger"
)

// fakeClock is a settable time source for TTL tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAcc(t *testing.T, cfg Config, opts ...Option) *Accumulator {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	acc, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return acc
}

func mustIngest(t *testing.T, acc *Accumulator, ev Event) Result {
	t.Helper()
	res, err := acc.Ingest(ev)
	if err != nil {
		t.Fatalf("Ingest(%+v): %v", ev, err)
	}
	return res
}

func partial(start, end float64, text string) Event {
	return Event{Kind: EventPartial, Start: start, End: end, Text: text}
}

func final(start, end float64, text string) Event {
	return Event{Kind: EventFinal, Start: start, End: end, Text: text}
}

func TestNew_AppliesDefaults(t *testing.T) {
	acc := newTestAcc(t, Config{})
	if acc.cfg.LockWindowSeconds != DefaultLockWindowSeconds {
		t.Errorf("lock window = %g", acc.cfg.LockWindowSeconds)
	}
	if acc.cfg.TimestampToleranceSeconds != DefaultTimestampToleranceSeconds {
		t.Errorf("tolerance = %g", acc.cfg.TimestampToleranceSeconds)
	}
	if acc.cfg.SnapshotTTLSeconds != DefaultSnapshotTTLSeconds {
		t.Errorf("snapshot ttl = %g", acc.cfg.SnapshotTTLSeconds)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{LockWindowSeconds: -1}); !errors.IsInvalidConfig(err) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
	if _, err := New(Config{LockWindowSeconds: 1, TimestampToleranceSeconds: 1}); !errors.IsInvalidConfig(err) {
		t.Errorf("expected INVALID_CONFIG for tolerance >= lock window, got %v", err)
	}
}

func TestIngest_InvalidEvents(t *testing.T) {
	acc := newTestAcc(t, Config{})

	if _, err := acc.Ingest(partial(-1, 2, "x")); !errors.IsInvalidInput(err) {
		t.Errorf("negative start: got %v", err)
	}
	if _, err := acc.Ingest(partial(2, 2, "x")); !errors.IsInvalidInput(err) {
		t.Errorf("end == start: got %v", err)
	}
	if _, err := acc.Ingest(partial(3, 2, "x")); !errors.IsInvalidInput(err) {
		t.Errorf("end < start: got %v", err)
	}
	if _, err := acc.Ingest(BoundaryEvent()); !errors.IsInvalidInput(err) {
		t.Errorf("boundary via Ingest: got %v", err)
	}
	if st := acc.Stats(); st.TotalSegments != 0 {
		t.Errorf("invalid events must not mutate state, have %d segments", st.TotalSegments)
	}
}

func TestIngest_InsertAndLock(t *testing.T) {
	// With a 2 s lock window, a second segment at (2,4) pushes the fence
	// to 2.0 and locks the first.
	acc := newTestAcc(t, Config{LockWindowSeconds: 2.0})

	res := mustIngest(t, acc, partial(0, 2, "hello"))
	if res.Outcome != OutcomeInserted {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if res.Segment.Version != 1 || res.Segment.Locked {
		t.Errorf("fresh segment: %+v", res.Segment)
	}
	st := acc.Stats()
	if st.UnlockedSegments != 1 || st.LockedSegments != 0 || st.Fence != 0 {
		t.Errorf("after first insert: %+v", st)
	}

	res = mustIngest(t, acc, partial(2, 4, "world"))
	if res.Outcome != OutcomeInserted || res.NewlyLocked != 1 {
		t.Fatalf("second insert: outcome=%s newlyLocked=%d", res.Outcome, res.NewlyLocked)
	}
	st = acc.Stats()
	if st.LiveEdge != 4 || st.Fence != 2.0 {
		t.Errorf("liveEdge=%g fence=%g", st.LiveEdge, st.Fence)
	}
	locked, unlocked := acc.LockedSegments(), acc.UnlockedSegments()
	if len(locked) != 1 || locked[0].Text != "hello" {
		t.Errorf("locked = %v", locked)
	}
	if len(unlocked) != 1 || unlocked[0].Text != "world" {
		t.Errorf("unlocked = %v", unlocked)
	}
}

func TestIngest_UpdateRevisesUnlocked(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 10})

	mustIngest(t, acc, partial(0, 2, "helo"))
	res := mustIngest(t, acc, partial(0.05, 1.95, "hello"))
	if res.Outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if res.Segment.Version != 2 || res.Segment.Text != "hello" {
		t.Errorf("revised segment: %+v", res.Segment)
	}
	// The jittered update must not have created a second segment.
	if st := acc.Stats(); st.TotalSegments != 1 {
		t.Errorf("total segments = %d", st.TotalSegments)
	}
}

func TestIngest_CleansText(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 10})

	res := mustIngest(t, acc, partial(0, 2, "  hello\tworld \n"))
	if res.Segment.Text != "hello world" {
		t.Errorf("stored text = %q", res.Segment.Text)
	}
	// The cleaned form is what duplicate detection compares against.
	res = mustIngest(t, acc, partial(0, 2, "hello world"))
	if res.Outcome != OutcomeDuplicate {
		t.Errorf("outcome = %s", res.Outcome)
	}
}

func TestIngest_DuplicateIsNoOp(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 10})

	mustIngest(t, acc, partial(0, 2, "hello"))
	res := mustIngest(t, acc, partial(0, 2, "hello"))
	if res.Outcome != OutcomeDuplicate {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if res.Segment.Version != 1 {
		t.Errorf("duplicate must not bump version, got %d", res.Segment.Version)
	}
}

func TestIngest_RejectsLockedMutation(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 2.0})
	mustIngest(t, acc, partial(0, 2, "hello"))
	mustIngest(t, acc, partial(2, 4, "world"))

	res, err := acc.Ingest(partial(0, 2, "goodbye"))
	if !errors.IsRejected(err) {
		t.Fatalf("expected REJECTED_LOCKED, got %v", err)
	}
	if res.Outcome != OutcomeRejectedLocked {
		t.Errorf("outcome = %s", res.Outcome)
	}
	if got := acc.Transcript(); got != "hello" {
		t.Errorf("locked text changed: %q", got)
	}
	// A re-sent confirmation with identical text is a duplicate, not a
	// rejection.
	res = mustIngest(t, acc, final(0, 2, "hello"))
	if res.Outcome != OutcomeDuplicate {
		t.Errorf("identical resend: outcome = %s", res.Outcome)
	}
}

// Confirmed content round-trips: non-overlapping finals covering a span
// reproduce their concatenation in the stable transcript immediately,
// without waiting for the fence.
func TestIngest_FinalRoundTrip(t *testing.T) {
	acc := newTestAcc(t, Config{})

	for _, ev := range []Event{
		final(0, 2, "a"),
		final(2, 4, "b"),
		final(4, 6, "c"),
	} {
		res := mustIngest(t, acc, ev)
		if res.Outcome != OutcomeInserted {
			t.Fatalf("outcome = %s", res.Outcome)
		}
		if !res.Segment.Locked {
			t.Fatalf("final (%g,%g) not locked on ingest", ev.Start, ev.End)
		}
		if res.NewlyLocked < 1 {
			t.Errorf("NewlyLocked = %d, want >= 1", res.NewlyLocked)
		}
	}
	if got := acc.Transcript(); got != "a b c" {
		t.Errorf("transcript = %q", got)
	}
	if st := acc.Stats(); st.UnlockedSegments != 0 {
		t.Errorf("unlocked = %d, want 0", st.UnlockedSegments)
	}
}

func TestIngest_FinalNotRevisableByPartial(t *testing.T) {
	acc := newTestAcc(t, Config{})

	mustIngest(t, acc, final(0, 2, "confirmed"))
	res, err := acc.Ingest(partial(0, 2, "overwritten"))
	if !errors.IsRejected(err) {
		t.Fatalf("expected REJECTED_LOCKED, got %v", err)
	}
	if res.Outcome != OutcomeRejectedLocked {
		t.Errorf("outcome = %s", res.Outcome)
	}
	if got := acc.Transcript(); got != "confirmed" {
		t.Errorf("transcript = %q", got)
	}
}

func TestIngest_FinalConfirmsExistingHypothesis(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 100})

	// Revising final: the partial's text is replaced and the segment locks.
	mustIngest(t, acc, partial(0, 2, "draft"))
	res := mustIngest(t, acc, final(0, 2, "polished"))
	if res.Outcome != OutcomeUpdated {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if !res.Segment.Locked || res.Segment.Version != 2 {
		t.Errorf("confirmed segment: %+v", res.Segment)
	}

	// Identical-text final: a duplicate, but it still locks the segment.
	mustIngest(t, acc, partial(2, 4, "steady"))
	res = mustIngest(t, acc, final(2, 4, "steady"))
	if res.Outcome != OutcomeDuplicate {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if !res.Segment.Locked {
		t.Error("identical-text final must lock the segment")
	}
	if res.Segment.Version != 1 {
		t.Errorf("duplicate must not bump version, got %d", res.Segment.Version)
	}

	if got := acc.Transcript(); got != "polished steady" {
		t.Errorf("transcript = %q", got)
	}
}

func TestFence_Monotonic(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 2.0})

	events := []Event{
		partial(0, 1.5, "a"),
		partial(1.5, 3, "b"),
		partial(1.4, 2.9, "b2"), // jittered revision, live edge must not retreat
		partial(3, 5, "c"),
		partial(4.5, 6, "d"),
	}
	prev := 0.0
	for _, ev := range events {
		mustIngest(t, acc, ev)
		st := acc.Stats()
		if st.Fence < prev {
			t.Fatalf("fence retreated from %g to %g after %+v", prev, st.Fence, ev)
		}
		prev = st.Fence
	}
	if prev != 4.0 {
		t.Errorf("final fence = %g, want 4.0", prev)
	}
}

func TestLockIrreversibility(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 2.0})
	mustIngest(t, acc, partial(0, 2, "hello"))
	mustIngest(t, acc, partial(2, 4, "world"))

	for i := 0; i < 3; i++ {
		acc.Ingest(partial(0, 2, "mutation"))
	}
	locked := acc.LockedSegments()
	if len(locked) != 1 || locked[0].Text != "hello" || !locked[0].Locked {
		t.Errorf("locked segment drifted: %v", locked)
	}
}

func TestSetLockWindow_LockNow(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 100})
	mustIngest(t, acc, partial(0, 2, "a"))
	mustIngest(t, acc, partial(2, 4, "b"))
	mustIngest(t, acc, partial(4, 6, "c"))

	if st := acc.Stats(); st.LockedSegments != 0 {
		t.Fatalf("nothing should be locked yet, have %d", st.LockedSegments)
	}
	if err := acc.SetLockWindow(1.0); err != nil {
		t.Fatalf("SetLockWindow: %v", err)
	}
	st := acc.Stats()
	if st.Fence != 5.0 {
		t.Errorf("fence = %g, want 5.0", st.Fence)
	}
	if st.LockedSegments != 2 {
		t.Errorf("locked = %d, want 2", st.LockedSegments)
	}

	if err := acc.SetLockWindow(0); !errors.IsInvalidConfig(err) {
		t.Errorf("zero lock window: got %v", err)
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 2.0})
	mustIngest(t, acc, partial(0, 2, "a"))
	mustIngest(t, acc, partial(2, 4, "b"))
	acc.ForceBoundary()

	acc.Reset()
	st := acc.Stats()
	if st.TotalSegments != 0 || st.Fence != 0 || st.LiveEdge != 0 || st.SnapshotsOpen != 0 {
		t.Errorf("after reset: %+v", st)
	}
	if acc.Transcript() != "" || acc.PreviewText() != "" {
		t.Error("projections must be empty after reset")
	}

	// The accumulator is reusable after a reset.
	res := mustIngest(t, acc, partial(0, 1, "again"))
	if res.Outcome != OutcomeInserted {
		t.Errorf("post-reset ingest: %s", res.Outcome)
	}
}

func TestStats_Totals(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 2.0})
	mustIngest(t, acc, partial(0, 2, "a"))
	mustIngest(t, acc, partial(2, 4, "b"))
	mustIngest(t, acc, partial(4, 6.5, "c"))

	st := acc.Stats()
	if st.TotalSegments != 3 {
		t.Errorf("total = %d", st.TotalSegments)
	}
	if st.LockedSegments != 2 || st.UnlockedSegments != 1 {
		t.Errorf("locked/unlocked = %d/%d", st.LockedSegments, st.UnlockedSegments)
	}
	if st.TotalDuration != 6.5 {
		t.Errorf("total duration = %g", st.TotalDuration)
	}
	if st.LiveEdge != 6.5 || st.Fence != 4.5 {
		t.Errorf("liveEdge=%g fence=%g", st.LiveEdge, st.Fence)
	}
}

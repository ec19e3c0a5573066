package accumulator

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/transcriptkit/errors"
	"github.com/kbukum/transcriptkit/logger"
)

// snapshot is a point-in-time deep copy of the unlocked working set,
// taken when the upstream backend forces a context boundary. It exists to
// rescue content that a later, narrower confirmation would otherwise
// destroy. Segments are held by value: post-snapshot mutation of the live
// store never affects a taken snapshot.
type snapshot struct {
	id        string
	takenAt   time.Time
	expiresAt time.Time
	segments  []Segment
}

func (s *snapshot) span() (start, end float64) {
	if len(s.segments) == 0 {
		return 0, 0
	}
	start, end = s.segments[0].Start, s.segments[0].End
	for _, seg := range s.segments[1:] {
		if seg.Start < start {
			start = seg.Start
		}
		if seg.End > end {
			end = seg.End
		}
	}
	return start, end
}

func (s *snapshot) overlaps(start, end float64) bool {
	lo, hi := s.span()
	return lo < end && hi > start
}

// ForceBoundary snapshots the current unlocked segments ahead of an
// upstream context reset. The live segments are not cleared; they
// continue their normal lifecycle in parallel. Returns the number of
// segments captured; zero means nothing was in flight and no snapshot
// was enqueued.
func (a *Accumulator) ForceBoundary() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	var copies []Segment
	for _, seg := range a.store.all() {
		if !seg.Locked {
			copies = append(copies, *seg)
		}
	}
	if len(copies) == 0 {
		a.log.Debug("force boundary with empty working set; no snapshot taken")
		return 0
	}

	now := a.now()
	snap := &snapshot{
		id:        uuid.NewString(),
		takenAt:   now,
		expiresAt: now.Add(time.Duration(a.cfg.SnapshotTTLSeconds * float64(time.Second))),
		segments:  copies,
	}
	a.snapshots = append(a.snapshots, snap)
	a.metrics.RecordSnapshotTaken()
	a.log.Info("boundary snapshot taken", map[string]interface{}{
		logger.FieldSnapshotID: snap.id, "segments": len(copies),
	})
	return len(copies)
}

// expireSnapshots commits any snapshot past its TTL verbatim as locked
// content. Expiry is evaluated lazily on ingest; there is no background
// timer. Caller holds the mutex.
func (a *Accumulator) expireSnapshots(now time.Time) {
	if len(a.snapshots) == 0 {
		return
	}
	kept := a.snapshots[:0]
	for _, snap := range a.snapshots {
		if now.Before(snap.expiresAt) {
			kept = append(kept, snap)
			continue
		}
		committed := a.commitSnapshot(snap)
		a.expiredCommits++
		a.metrics.RecordSnapshotExpired()
		a.log.Warn("snapshot expired unmatched; content auto-committed", map[string]interface{}{
			logger.FieldSnapshotID: snap.id, "segments_committed": committed,
		})
	}
	a.snapshots = kept
}

// commitSnapshot locks the snapshot's content into the store verbatim.
// A live segment still matching a snapshotted range is locked in place,
// keeping any revision accepted since the snapshot was taken; content no
// longer present live is re-inserted locked. Caller holds the mutex.
func (a *Accumulator) commitSnapshot(snap *snapshot) int {
	committed := 0
	for _, seg := range snap.segments {
		live := a.store.match(seg.Start, seg.End, a.cfg.TimestampToleranceSeconds)
		switch {
		case live == nil:
			locked := seg
			locked.Locked = true
			a.store.insert(&locked)
			committed++
		case !live.Locked:
			live.Locked = true
			committed++
		}
	}
	if committed > 0 {
		a.proj.invalidate()
		a.metrics.RecordLocked(committed)
		if end := maxEnd(snap.segments); end > a.liveEdge {
			a.liveEdge = end
		}
	}
	return committed
}

// recoverFromSnapshots reconciles a confirming final against every open
// snapshot it overlaps. The final's text wins for the sub-range it
// covers; snapshot segments wholly outside that range are rescued and
// committed locked in temporal order alongside it. Unlocked live
// hypotheses under the merged span are superseded. Returns the rescued
// segment count, whether any snapshot was consumed, and a
// REJECTED_LOCKED error when the final's own range hit an already
// locked segment with different text. Caller holds the mutex.
func (a *Accumulator) recoverFromSnapshots(ev Event) (int, bool, error) {
	if len(a.snapshots) == 0 {
		return 0, false, nil
	}
	tol := a.cfg.TimestampToleranceSeconds
	rescued := 0
	merged := false

	// The tolerance shrinks the final's span so a segment merely
	// adjacent to it counts as outside and gets rescued. A final shorter
	// than twice the tolerance collapses to its midpoint instead of
	// inverting the span.
	coverLo, coverHi := ev.Start+tol, ev.End-tol
	if coverHi < coverLo {
		mid := (ev.Start + ev.End) / 2
		coverLo, coverHi = mid, mid
	}

	kept := a.snapshots[:0]
	for _, snap := range a.snapshots {
		if !snap.overlaps(ev.Start, ev.End) {
			kept = append(kept, snap)
			continue
		}
		merged = true

		lo, hi := snap.span()
		if ev.Start < lo {
			lo = ev.Start
		}
		if ev.End > hi {
			hi = ev.End
		}
		superseded := a.store.removeUnlockedIn(lo, hi)

		snapRescued := 0
		for _, seg := range snap.segments {
			// Covered by the final beyond timestamp jitter: the final's
			// text wins for that sub-range.
			if seg.Overlaps(coverLo, coverHi) {
				continue
			}
			if a.store.match(seg.Start, seg.End, tol) != nil {
				continue
			}
			locked := seg
			locked.Locked = true
			a.store.insert(&locked)
			if locked.End > a.liveEdge {
				a.liveEdge = locked.End
			}
			snapRescued++
		}
		rescued += snapRescued

		a.metrics.RecordSnapshotMerged(snapRescued)
		a.log.Info("snapshot reconciled against final", map[string]interface{}{
			logger.FieldSnapshotID: snap.id, "rescued": snapRescued, "superseded": superseded,
			"final_start": ev.Start, "final_end": ev.End,
		})
	}
	a.snapshots = kept

	var err error
	if merged {
		// Commit the final itself, locked, unless an equivalent locked
		// segment already exists. A locked match with different text is
		// a rejected mutation, reported like any other.
		if live := a.store.match(ev.Start, ev.End, tol); live == nil {
			now := a.now()
			a.store.insert(&Segment{
				Start: ev.Start, End: ev.End, Text: ev.Text,
				Locked: true, Version: 1,
				FirstSeenAt: now, LastUpdatedAt: now,
			})
		} else if !live.Locked {
			live.Text = ev.Text
			live.Version++
			live.Locked = true
			live.LastUpdatedAt = a.now()
		} else if live.Text != ev.Text {
			a.log.Warn("recovery final rejected: range is locked", logger.RangeFields(live.Start, live.End))
			err = errors.RejectedLocked(live.Start, live.End)
		}
		a.proj.invalidate()
		if rescued > 0 {
			a.metrics.RecordLocked(rescued)
		}
	}
	return rescued, merged, err
}

func maxEnd(segs []Segment) float64 {
	end := 0.0
	for _, seg := range segs {
		if seg.End > end {
			end = seg.End
		}
	}
	return end
}

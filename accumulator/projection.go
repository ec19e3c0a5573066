package accumulator

import (
	"fmt"
	"sort"
	"strings"
)

// projections holds the two cached transcript views. Caches are
// invalidated on any structural mutation and rebuilt lazily on the next
// read, bounding projection cost under bursty ingestion. Rebuilt slices
// are handed out as copies only.
type projections struct {
	lockedDirty   bool
	unlockedDirty bool
	locked        []Segment
	unlocked      []Segment
}

func (p *projections) invalidate() {
	p.lockedDirty = true
	p.unlockedDirty = true
}

// rebuildLocked refreshes the locked cache from the store if dirty.
func (a *Accumulator) rebuildLocked() {
	if !a.proj.lockedDirty {
		return
	}
	a.proj.locked = a.proj.locked[:0]
	for _, seg := range a.store.all() {
		if seg.Locked {
			a.proj.locked = append(a.proj.locked, *seg)
		}
	}
	a.proj.lockedDirty = false
}

// rebuildUnlocked refreshes the unlocked cache from the store if dirty.
func (a *Accumulator) rebuildUnlocked() {
	if !a.proj.unlockedDirty {
		return
	}
	a.proj.unlocked = a.proj.unlocked[:0]
	for _, seg := range a.store.all() {
		if !seg.Locked {
			a.proj.unlocked = append(a.proj.unlocked, *seg)
		}
	}
	a.proj.unlockedDirty = false
}

// LockedSegments returns the immutable transcript prefix in time order.
func (a *Accumulator) LockedSegments() []Segment {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rebuildLocked()
	return append([]Segment(nil), a.proj.locked...)
}

// UnlockedSegments returns the revisable working set in time order.
func (a *Accumulator) UnlockedSegments() []Segment {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rebuildUnlocked()
	return append([]Segment(nil), a.proj.unlocked...)
}

// SegmentsInRange returns copies of all segments overlapping the range.
func (a *Accumulator) SegmentsInRange(start, end float64) []Segment {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Segment
	for _, seg := range a.store.overlapping(start, end) {
		out = append(out, *seg)
	}
	return out
}

// Transcript returns the locked text in time order, space-joined. This
// is the stable, display-safe portion: once a word appears here it never
// disappears or changes.
func (a *Accumulator) Transcript() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rebuildLocked()
	return joinTexts(a.proj.locked)
}

// PreviewText returns locked plus unlocked text in time order. The
// unlocked tail may still be revised; display layers typically render it
// dimmed.
func (a *Accumulator) PreviewText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rebuildLocked()
	a.rebuildUnlocked()

	merged := make([]Segment, 0, len(a.proj.locked)+len(a.proj.unlocked))
	merged = append(merged, a.proj.locked...)
	merged = append(merged, a.proj.unlocked...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	return joinTexts(merged)
}

// AnnotatedTranscript returns a debug rendering with per-segment range,
// version, and lock tags, one segment per line.
func (a *Accumulator) AnnotatedTranscript() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	for i, seg := range a.store.all() {
		if i > 0 {
			b.WriteByte('\n')
		}
		state := "open"
		if seg.Locked {
			state = "locked"
		}
		fmt.Fprintf(&b, "[%.2f-%.2f v%d %s] %s", seg.Start, seg.End, seg.Version, state, seg.Text)
	}
	return b.String()
}

func joinTexts(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

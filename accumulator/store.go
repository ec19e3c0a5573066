package accumulator

import "sort"

// store holds a session's segments ordered by start offset. The sorted
// slice gives O(log n) point lookup and ordered iteration for
// projections. firstActive tracks the length of the leading run of
// locked segments so fence application never rescans old history.
type store struct {
	segs        []*Segment
	firstActive int
}

func newStore() *store {
	return &store{}
}

func (st *store) len() int { return len(st.segs) }

// insert adds a segment preserving start-offset order.
func (st *store) insert(seg *Segment) {
	i := sort.Search(len(st.segs), func(i int) bool {
		return st.segs[i].Start > seg.Start
	})
	st.segs = append(st.segs, nil)
	copy(st.segs[i+1:], st.segs[i:])
	st.segs[i] = seg
	if i < st.firstActive {
		st.firstActive = i
	}
}

// match returns the segment whose start and end both fall within tol of
// the given range, or nil. This is the fuzzy point query behind the
// matcher; with tol 0 it is an exact lookup.
func (st *store) match(start, end, tol float64) *Segment {
	lo := sort.Search(len(st.segs), func(i int) bool {
		return st.segs[i].Start >= start-tol
	})
	for i := lo; i < len(st.segs) && st.segs[i].Start <= start+tol; i++ {
		if abs(st.segs[i].End-end) <= tol {
			return st.segs[i]
		}
	}
	return nil
}

// overlapping returns segments intersecting the given range in time order.
func (st *store) overlapping(start, end float64) []*Segment {
	var out []*Segment
	for _, seg := range st.segs {
		if seg.Start >= end {
			break
		}
		if seg.Overlaps(start, end) {
			out = append(out, seg)
		}
	}
	return out
}

// all returns every segment in time order. Callers must not retain the slice.
func (st *store) all() []*Segment { return st.segs }

// lockBefore locks every unlocked segment ending at or before fence and
// returns the count newly locked. Locking an already-locked segment is a
// no-op. The scan starts at the active suffix and stops at the first
// segment starting at or past the fence, so cost tracks the live working
// set rather than the session history.
func (st *store) lockBefore(fence float64) int {
	locked := 0
	for i := st.firstActive; i < len(st.segs); i++ {
		seg := st.segs[i]
		if seg.Start >= fence {
			break
		}
		if !seg.Locked && seg.End <= fence {
			seg.Locked = true
			locked++
		}
	}
	st.advanceActive()
	return locked
}

// removeUnlockedIn removes unlocked segments overlapping the given range.
// Used only by snapshot merging, where a confirming final supersedes the
// working-buffer hypotheses it covers.
func (st *store) removeUnlockedIn(start, end float64) int {
	kept := st.segs[:0]
	removed := 0
	for _, seg := range st.segs {
		if !seg.Locked && seg.Overlaps(start, end) {
			removed++
			continue
		}
		kept = append(kept, seg)
	}
	for i := len(kept); i < len(st.segs); i++ {
		st.segs[i] = nil
	}
	st.segs = kept
	if removed > 0 {
		st.firstActive = 0
		st.advanceActive()
	}
	return removed
}

func (st *store) clear() {
	st.segs = nil
	st.firstActive = 0
}

func (st *store) advanceActive() {
	for st.firstActive < len(st.segs) && st.segs[st.firstActive].Locked {
		st.firstActive++
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

package accumulator

// matchClass classifies an incoming hypothesis against existing segments.
type matchClass int

const (
	classInsert matchClass = iota
	classUpdate
	classDuplicate
	classRejectLocked
)

func (c matchClass) String() string {
	switch c {
	case classInsert:
		return "insert"
	case classUpdate:
		return "update"
	case classDuplicate:
		return "duplicate"
	case classRejectLocked:
		return "reject-locked"
	default:
		return "unknown"
	}
}

// classify matches (start, end, text) against the store under the
// timestamp tolerance. Two ranges match iff both their starts and their
// ends differ by at most tol, which absorbs upstream jitter without
// conflating distinct segments. Pure: no side effects on the store.
//
// A match with identical text is a duplicate regardless of lock state: a
// re-sent confirmation of locked content is a no-op, not a violation.
// Only a text change against a locked segment is rejected.
func classify(st *store, start, end float64, text string, tol float64) (matchClass, *Segment) {
	seg := st.match(start, end, tol)
	if seg == nil {
		return classInsert, nil
	}
	if seg.Text == text {
		return classDuplicate, seg
	}
	if seg.Locked {
		return classRejectLocked, seg
	}
	return classUpdate, seg
}

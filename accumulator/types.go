package accumulator

import (
	"time"

	"github.com/kbukum/transcriptkit/errors"
)

// Segment is a text hypothesis for a bounded time range, with offsets in
// seconds from session start.
type Segment struct {
	// Start is the segment start offset in seconds.
	Start float64 `json:"start"`
	// End is the segment end offset in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this range.
	Text string `json:"text"`
	// Locked reports whether the segment is behind the fence and immutable.
	Locked bool `json:"locked"`
	// Version counts accepted revisions, starting at 1.
	Version int `json:"version"`
	// FirstSeenAt records when the segment was first ingested. Diagnostics only.
	FirstSeenAt time.Time `json:"first_seen_at,omitempty"`
	// LastUpdatedAt records the most recent accepted revision. Diagnostics only.
	LastUpdatedAt time.Time `json:"last_updated_at,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Overlaps reports whether the segment overlaps the given range.
func (s Segment) Overlaps(start, end float64) bool {
	return s.Start < end && s.End > start
}

// EventKind tags the fixed event variants an accumulator accepts.
// Loosely-typed upstream payloads must be converted into one of these at
// the boundary; the reconciler never branches on raw transport data.
type EventKind string

const (
	// EventPartial is a provisional hypothesis, revisable until locked.
	EventPartial EventKind = "partial"
	// EventFinal is a confirmed hypothesis from the backend.
	EventFinal EventKind = "final"
	// EventBoundary signals an imminent upstream context reset.
	EventBoundary EventKind = "boundary"
	// EventReset clears all session state.
	EventReset EventKind = "reset"
)

// Event is the tagged ingest variant. Start, End and Text are meaningful
// for EventPartial and EventFinal only.
type Event struct {
	Kind  EventKind `json:"kind"`
	Start float64   `json:"start"`
	End   float64   `json:"end"`
	Text  string    `json:"text"`
}

// NewPartial builds a validated partial-hypothesis event.
func NewPartial(start, end float64, text string) (Event, error) {
	if err := validateRange(start, end); err != nil {
		return Event{}, err
	}
	return Event{Kind: EventPartial, Start: start, End: end, Text: text}, nil
}

// NewFinal builds a validated confirmed-hypothesis event.
func NewFinal(start, end float64, text string) (Event, error) {
	if err := validateRange(start, end); err != nil {
		return Event{}, err
	}
	return Event{Kind: EventFinal, Start: start, End: end, Text: text}, nil
}

// BoundaryEvent returns the force-boundary signal event.
func BoundaryEvent() Event { return Event{Kind: EventBoundary} }

// ResetEvent returns the session reset signal event.
func ResetEvent() Event { return Event{Kind: EventReset} }

func validateRange(start, end float64) error {
	if start < 0 {
		return errors.InvalidInput("start", "start must not be negative").WithDetail("start", start)
	}
	if end <= start {
		return errors.InvalidInput("end", "end must be greater than start").
			WithDetail("start", start).WithDetail("end", end)
	}
	return nil
}

// Outcome describes what an ingested event did to the transcript state.
type Outcome string

const (
	// OutcomeInserted means a new segment was created.
	OutcomeInserted Outcome = "inserted"
	// OutcomeUpdated means an unlocked segment's text was revised.
	OutcomeUpdated Outcome = "updated"
	// OutcomeDuplicate means the event matched a segment with identical
	// text and changed nothing. Reported distinctly for observability.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeRejectedLocked means the event matched a locked segment with
	// different text and was not applied. Expected, never a fault.
	OutcomeRejectedLocked Outcome = "rejected_locked"
	// OutcomeRecovered means a final consumed one or more open snapshots:
	// its content was committed locked, along with any rescued snapshot
	// content outside its covered range.
	OutcomeRecovered Outcome = "recovered"
)

// Result reports the effect of a single ingested event.
type Result struct {
	// Outcome classifies what happened.
	Outcome Outcome `json:"outcome"`
	// Segment is a post-mutation copy of the affected segment, when one exists.
	Segment Segment `json:"segment"`
	// NewlyLocked counts segments locked as a consequence of this event,
	// by the fence advance it caused or by final-on-ingest confirmation.
	NewlyLocked int `json:"newly_locked"`
	// Rescued counts snapshot segments committed alongside a recovering final.
	Rescued int `json:"rescued"`
}

// Stats is a point-in-time summary of accumulator state.
type Stats struct {
	TotalSegments          int     `json:"total_segments"`
	LockedSegments         int     `json:"locked_segments"`
	UnlockedSegments       int     `json:"unlocked_segments"`
	Fence                  float64 `json:"fence"`
	LiveEdge               float64 `json:"live_edge"`
	TotalDuration          float64 `json:"total_duration"`
	SnapshotsOpen          int     `json:"snapshots_open"`
	SnapshotExpiredCommits int64   `json:"snapshot_expired_commits"`
}

// Package accumulator maintains canonical transcript state from the raw,
// jittery, duplicate, and sometimes late-arriving segment hypotheses
// produced by a sliding-window streaming speech-recognition backend.
//
// An Accumulator owns one session. Events flow through a reconciler that
// classifies each hypothesis against the existing segments under a
// timestamp tolerance, applies it, and advances an immutability fence
// behind the live edge. Segments older than the fence are locked forever,
// and a confirmed (final) hypothesis locks its segment immediately on
// ingest: no later event may change or remove locked text, so displayed
// transcript prefixes never flicker.
//
// When the upstream backend must reset its context (a forced segment
// boundary), unconfirmed hypotheses would normally be destroyed before a
// confirming final arrives. ForceBoundary snapshots the in-flight
// segments; a later final overlapping the snapshot rescues the content
// the final itself does not cover, and an unmatched snapshot is committed
// verbatim when its TTL expires. Either way, no words are silently lost.
//
// # Usage
//
//	acc, err := accumulator.New(accumulator.Config{}, accumulator.WithLogger(log))
//	res, err := acc.Ingest(accumulator.Event{Kind: accumulator.EventPartial, Start: 0, End: 2, Text: "hello"})
//	text := acc.Transcript()
//
// All mutating operations on one Accumulator are serialized internally;
// queries may be called concurrently with ingestion and return copies,
// never references into writer-owned state.
package accumulator

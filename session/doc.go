// Package session composes per-user accumulators behind a keyed
// registry. Each session owns an independent accumulator — segment
// store, fence, and snapshot queue — and sessions share no mutable
// state. The registry is an explicit value owned by the caller, never a
// module-level singleton.
//
//	reg := session.NewRegistry(accumulator.Config{})
//	acc, err := reg.Open(ctx, "user-42")
//	...
//	_ = reg.Close(ctx, "user-42")
package session

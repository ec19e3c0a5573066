package accumulator

import "github.com/kbukum/transcriptkit/errors"

func invalidLockWindow(v float64) error {
	return errors.InvalidConfig("lock_window_seconds", "must be greater than zero").
		WithDetail("value", v)
}

// computeFence derives the immutability boundary from the live edge:
// everything ending at or before liveEdge-lockWindow is old enough to lock.
// Never negative.
func computeFence(liveEdge, lockWindow float64) float64 {
	if f := liveEdge - lockWindow; f > 0 {
		return f
	}
	return 0
}

// advanceLiveEdge raises the live edge and re-derives the fence, locking
// any segments that fell behind it. Returns the count newly locked.
// Caller holds the accumulator mutex.
func (a *Accumulator) advanceLiveEdge(end float64) int {
	if end > a.liveEdge {
		a.liveEdge = end
	}
	return a.applyFence(computeFence(a.liveEdge, a.cfg.LockWindowSeconds))
}

// applyFence moves the fence to the given position and locks eligible
// segments. Under ordinary operation the fence only moves forward; an
// explicit lock-window change may move it in either direction, but
// locking remains irreversible either way. Caller holds the mutex.
func (a *Accumulator) applyFence(fence float64) int {
	a.fence = fence
	locked := a.store.lockBefore(fence)
	if locked > 0 {
		a.proj.invalidate()
		a.metrics.RecordLocked(locked)
		a.log.Debug("fence locked segments", map[string]interface{}{
			"fence": fence, "newly_locked": locked,
		})
	}
	a.metrics.RecordFence(fence)
	return locked
}

// SetLockWindow changes the lock window at runtime and immediately
// re-derives and applies the fence. Lowering the window jumps the fence
// forward and may lock many segments in one call; this is the intended
// "lock now" behavior, not an error.
func (a *Accumulator) SetLockWindow(seconds float64) error {
	if seconds <= 0 {
		return invalidLockWindow(seconds)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.LockWindowSeconds = seconds
	locked := a.applyFence(computeFence(a.liveEdge, seconds))
	a.log.Info("lock window changed", map[string]interface{}{
		"lock_window_seconds": seconds, "fence": a.fence, "newly_locked": locked,
	})
	return nil
}

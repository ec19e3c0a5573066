package accumulator

import (
	"context"
	"testing"
	"time"
)

func TestDrive_ConsumesUntilClose(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 10})

	events := make(chan Event, 8)
	events <- partial(0, 1, "one")
	events <- partial(1, 2, "two")
	events <- partial(5, 4, "invalid") // dropped, stream keeps flowing
	events <- BoundaryEvent()
	events <- final(0, 2, "one two")
	close(events)

	if err := acc.Drive(context.Background(), events); err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if got := acc.Transcript(); got != "one two" {
		t.Errorf("transcript = %q", got)
	}
	if st := acc.Stats(); st.SnapshotsOpen != 0 {
		t.Errorf("snapshots open = %d", st.SnapshotsOpen)
	}
}

func TestDrive_ResetEvent(t *testing.T) {
	acc := newTestAcc(t, Config{LockWindowSeconds: 10})

	events := make(chan Event, 4)
	events <- partial(0, 1, "gone")
	events <- ResetEvent()
	events <- partial(0, 1, "kept")
	close(events)

	if err := acc.Drive(context.Background(), events); err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if got := acc.PreviewText(); got != "kept" {
		t.Errorf("preview = %q", got)
	}
}

func TestDrive_ContextCancel(t *testing.T) {
	acc := newTestAcc(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())

	events := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- acc.Drive(ctx, events) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Drive returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Drive did not return after cancel")
	}
}

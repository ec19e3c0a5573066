package accumulator

import "testing"

func seg(start, end float64, text string) *Segment {
	return &Segment{Start: start, End: end, Text: text, Version: 1}
}

func TestStore_InsertKeepsOrder(t *testing.T) {
	st := newStore()
	st.insert(seg(2, 4, "b"))
	st.insert(seg(0, 2, "a"))
	st.insert(seg(4, 6, "c"))
	st.insert(seg(3, 5, "overlap"))

	var starts []float64
	for _, s := range st.all() {
		starts = append(starts, s.Start)
	}
	want := []float64{0, 2, 3, 4}
	for i := range want {
		if starts[i] != want[i] {
			t.Fatalf("order at %d: got %g, want %g (full: %v)", i, starts[i], want[i], starts)
		}
	}
}

func TestStore_Match(t *testing.T) {
	st := newStore()
	st.insert(seg(0, 2, "a"))
	st.insert(seg(2, 4, "b"))

	tests := []struct {
		name       string
		start, end float64
		tol        float64
		wantText   string
	}{
		{"exact", 0, 2, 0, "a"},
		{"jittered start", 0.05, 2, 0.1, "a"},
		{"jittered both", 2.08, 3.95, 0.1, "b"},
		{"start outside tolerance", 0.2, 2, 0.1, ""},
		{"end outside tolerance", 0, 2.2, 0.1, ""},
		{"no candidates", 10, 12, 0.1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := st.match(tt.start, tt.end, tt.tol)
			if tt.wantText == "" {
				if got != nil {
					t.Errorf("expected no match, got %q", got.Text)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match, got nil")
			}
			if got.Text != tt.wantText {
				t.Errorf("matched %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestStore_LockBefore(t *testing.T) {
	st := newStore()
	st.insert(seg(0, 2, "a"))
	st.insert(seg(2, 4, "b"))
	st.insert(seg(4, 6, "c"))

	if got := st.lockBefore(2); got != 1 {
		t.Fatalf("lockBefore(2) locked %d, want 1", got)
	}
	if !st.all()[0].Locked {
		t.Error("segment ending at the fence should be locked")
	}
	if st.all()[1].Locked {
		t.Error("segment ending past the fence should stay unlocked")
	}
	if st.firstActive != 1 {
		t.Errorf("firstActive = %d, want 1", st.firstActive)
	}

	// Idempotent: re-applying the same fence locks nothing new.
	if got := st.lockBefore(2); got != 0 {
		t.Errorf("second lockBefore(2) locked %d, want 0", got)
	}

	if got := st.lockBefore(6); got != 2 {
		t.Errorf("lockBefore(6) locked %d, want 2", got)
	}
	if st.firstActive != 3 {
		t.Errorf("firstActive = %d, want 3", st.firstActive)
	}
}

func TestStore_RemoveUnlockedIn(t *testing.T) {
	st := newStore()
	a := seg(0, 2, "a")
	a.Locked = true
	st.insert(a)
	st.insert(seg(2, 4, "b"))
	st.insert(seg(4, 6, "c"))
	st.insert(seg(8, 10, "d"))
	st.advanceActive()

	if got := st.removeUnlockedIn(0, 6); got != 2 {
		t.Fatalf("removed %d, want 2", got)
	}
	if st.len() != 2 {
		t.Fatalf("len = %d, want 2", st.len())
	}
	if st.all()[0].Text != "a" {
		t.Error("locked segment must survive removal")
	}
	if st.all()[1].Text != "d" {
		t.Error("segment outside the range must survive removal")
	}
}

func TestStore_Overlapping(t *testing.T) {
	st := newStore()
	st.insert(seg(0, 2, "a"))
	st.insert(seg(2, 4, "b"))
	st.insert(seg(4, 6, "c"))

	got := st.overlapping(1, 4.5)
	if len(got) != 3 {
		t.Fatalf("got %d overlapping, want 3", len(got))
	}
	if got := st.overlapping(2, 4); len(got) != 1 || got[0].Text != "b" {
		t.Errorf("half-open overlap: got %v", got)
	}
}

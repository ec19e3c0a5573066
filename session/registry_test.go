package session

import (
	"context"
	"testing"

	"github.com/kbukum/transcriptkit/accumulator"
	"github.com/kbukum/transcriptkit/errors"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(accumulator.Config{})
}

func TestRegistry_OpenAndGet(t *testing.T) {
	reg := newTestRegistry(t)
	acc, err := reg.Open(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, ok := reg.Get("alice")
	if !ok || got != acc {
		t.Error("expected the opened session back")
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 session, got %d", reg.Len())
	}
}

func TestRegistry_OpenGeneratesID(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := reg.Open(context.Background(), ""); err != nil {
		t.Fatalf("Open: %v", err)
	}
	ids := reg.List()
	if len(ids) != 1 || ids[0] == "" {
		t.Errorf("expected one generated id, got %v", ids)
	}
}

func TestRegistry_OpenDuplicate(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := reg.Open(context.Background(), "alice"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, err := reg.Open(context.Background(), "alice")
	if errors.CodeOf(err) != errors.ErrCodeAlreadyExists {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestRegistry_OpenInvalidConfig(t *testing.T) {
	reg := NewRegistry(accumulator.Config{LockWindowSeconds: -1})
	_, err := reg.Open(context.Background(), "alice")
	if !errors.IsInvalidConfig(err) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	reg := newTestRegistry(t)
	a, _ := reg.Open(context.Background(), "alice")
	b, _ := reg.Open(context.Background(), "bob")

	if _, err := a.Ingest(accumulator.Event{Kind: accumulator.EventPartial, Start: 0, End: 2, Text: "hello"}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := b.Stats().TotalSegments; got != 0 {
		t.Errorf("expected bob untouched, got %d segments", got)
	}
	if got := a.Stats().TotalSegments; got != 1 {
		t.Errorf("expected alice to have 1 segment, got %d", got)
	}
}

func TestRegistry_Reset(t *testing.T) {
	reg := newTestRegistry(t)
	acc, _ := reg.Open(context.Background(), "alice")
	_, _ = acc.Ingest(accumulator.Event{Kind: accumulator.EventPartial, Start: 0, End: 2, Text: "hello"})

	if err := reg.Reset(context.Background(), "alice"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := acc.Stats().TotalSegments; got != 0 {
		t.Errorf("expected cleared state, got %d segments", got)
	}
	if err := reg.Reset(context.Background(), "carol"); !errors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestRegistry_Close(t *testing.T) {
	reg := newTestRegistry(t)
	_, _ = reg.Open(context.Background(), "alice")

	if err := reg.Close(context.Background(), "alice"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := reg.Get("alice"); ok {
		t.Error("expected session removed")
	}
	if err := reg.Close(context.Background(), "alice"); !errors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND on double close, got %v", err)
	}
}

func TestRegistry_List_Sorted(t *testing.T) {
	reg := newTestRegistry(t)
	for _, id := range []string{"carol", "alice", "bob"} {
		if _, err := reg.Open(context.Background(), id); err != nil {
			t.Fatalf("Open %s: %v", id, err)
		}
	}
	ids := reg.List()
	want := []string{"alice", "bob", "carol"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

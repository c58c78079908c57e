package cache

import (
	"context"
	"testing"
	"time"
)

func TestKey_DistinctProviders(t *testing.T) {
	a := Key("brave", "rust ownership", 5, KeyFields{})
	b := Key("bocha", "rust ownership", 5, KeyFields{})
	if a == b {
		t.Fatalf("different providers produced equal keys: %q", a)
	}
}

func TestKey_SiteChangesKey(t *testing.T) {
	a := Key("bocha", "rust ownership", 5, KeyFields{})
	b := Key("bocha", "rust ownership", 5, KeyFields{Site: "docs.rs"})
	if a == b {
		t.Fatalf("site difference did not change key: %q", a)
	}
}

func TestKey_AbsentFieldsUseDefaultPlaceholder(t *testing.T) {
	got := Key("brave", "q", 3, KeyFields{})
	want := "brave|q|3|default|default|default|default|default|default"
	if got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

func TestKey_SummaryDistinguishesSetFromUnset(t *testing.T) {
	unset := Key("bocha", "q", 3, KeyFields{})
	explicitFalse := Key("bocha", "q", 3, KeyFields{Summary: false, SummarySet: true})
	explicitTrue := Key("bocha", "q", 3, KeyFields{Summary: true, SummarySet: true})
	if unset == explicitFalse || explicitFalse == explicitTrue {
		t.Fatalf("summary states collide: %q %q %q", unset, explicitFalse, explicitTrue)
	}
}

func TestMemoryStore_HitWithinTTL(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte(`{"n":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	payload, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(payload) != `{"n":1}` {
		t.Fatalf("payload = %s", payload)
	}
}

func TestMemoryStore_ExpiredEntryIsMiss(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	if err := s.Put(ctx, "k", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	now = base.Add(4 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before TTL")
	}

	now = base.Add(6 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss after TTL")
	}
	// The stale entry is dropped on read.
	if s.Len() != 0 {
		t.Fatalf("stale entry retained, len=%d", s.Len())
	}
}

func TestMemoryStore_LastWriterWins(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	_ = s.Put(ctx, "k", []byte("first"))
	_ = s.Put(ctx, "k", []byte("second"))
	payload, ok, _ := s.Get(ctx, "k")
	if !ok || string(payload) != "second" {
		t.Fatalf("payload = %q ok=%v", payload, ok)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	now := base
	s.SetClock(func() time.Time { return now })

	_ = s.Put(ctx, "old", []byte("x"))
	now = base.Add(30 * time.Second)
	_ = s.Put(ctx, "fresh", []byte("y"))

	now = base.Add(70 * time.Second)
	deleted, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, ok, _ := s.Get(ctx, "fresh"); !ok {
		t.Fatal("fresh entry swept")
	}
}

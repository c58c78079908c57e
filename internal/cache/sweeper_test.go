package cache

import (
	"testing"
	"time"
)

func TestNewSweeper_ValidExpression(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	sw, err := NewSweeper(s, "*/5 * * * *", nil)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	if sw == nil {
		t.Fatal("expected non-nil sweeper")
	}
	next := sw.schedule.Next(time.Date(2026, 8, 26, 12, 1, 0, 0, time.UTC))
	if next.Minute()%5 != 0 {
		t.Fatalf("next fire minute = %d, want multiple of 5", next.Minute())
	}
}

func TestNewSweeper_InvalidExpression(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	if _, err := NewSweeper(s, "not a cron expr", nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewSweeper_RejectsSixFields(t *testing.T) {
	// Seconds field is not part of the accepted grammar.
	s := NewMemoryStore(time.Minute)
	if _, err := NewSweeper(s, "0 */5 * * * *", nil); err == nil {
		t.Fatal("expected parse error for 6-field expression")
	}
}

package domain

import (
	"testing"
	"time"
)

func TestRunValidate(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ok := Run{ID: "r1", Positions: 5, StartedAt: start, CompletedAt: start.Add(90 * time.Second)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid run: %v", err)
	}
	if ok.Duration() != 90*time.Second {
		t.Fatalf("unexpected duration %s", ok.Duration())
	}
	bad := []Run{
		{Positions: 5, StartedAt: start, CompletedAt: start},
		{ID: "r", StartedAt: start, CompletedAt: start},
		{ID: "r", Positions: 1, Pauses: -1, StartedAt: start, CompletedAt: start},
		{ID: "r", Positions: 1, StartedAt: start, CompletedAt: start.Add(-time.Second)},
	}
	for i, r := range bad {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

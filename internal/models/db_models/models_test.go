package db_models

import (
	"testing"
	"time"
)

func TestClampCoverIndex(t *testing.T) {
	tests := []struct {
		idx, n, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{-1, 4, 0},
		{2, 4, 2},
		{4, 4, 3},
		{9, 1, 0},
	}
	for _, tt := range tests {
		if got := ClampCoverIndex(tt.idx, tt.n); got != tt.want {
			t.Errorf("ClampCoverIndex(%d, %d) = %d, want %d", tt.idx, tt.n, got, tt.want)
		}
	}
}

func TestCoverImage(t *testing.T) {
	l := Listing{Images: []string{"a", "b"}, CoverIndex: 5}
	if got := l.CoverImage(); got != "b" {
		t.Fatalf("CoverImage = %q", got)
	}
	if got := (&Listing{}).CoverImage(); got != "" {
		t.Fatalf("empty CoverImage = %q", got)
	}
}

func TestSubscriptionRollOver(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	s := SubscriptionSnapshot{
		Status:        SubStatusActive,
		ListingsUsed:  5,
		ListingsTotal: 5,
		PeriodStart:   start.Unix(),
	}

	if s.RollOver(start.AddDate(0, 0, 20)) {
		t.Fatal("rolled over inside the period")
	}
	if s.HasQuota() {
		t.Fatal("exhausted snapshot reports quota")
	}

	if !s.RollOver(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected roll over after three months")
	}
	if s.ListingsUsed != 0 {
		t.Fatalf("used = %d after roll over", s.ListingsUsed)
	}
	if want := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC).Unix(); s.PeriodStart != want {
		t.Fatalf("period start = %v, want %v", time.Unix(s.PeriodStart, 0).UTC(), time.Unix(want, 0).UTC())
	}
	if !s.HasQuota() {
		t.Fatal("fresh period should have quota")
	}
}

func TestRollOverIgnoresInactive(t *testing.T) {
	s := SubscriptionSnapshot{Status: SubStatusNone, ListingsUsed: 1}
	if s.RollOver(time.Now()) {
		t.Fatal("inactive snapshot rolled over")
	}
}

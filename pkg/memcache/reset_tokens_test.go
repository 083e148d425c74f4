package mem

import (
	"testing"
	"time"
)

func newTestStore(now *time.Time) *TTLStore {
	s := NewResetTokens()
	s.now = func() time.Time { return *now }
	return s
}

func TestConsumeIsSingleUse(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	s.Set("tok", "a@example.com", time.Minute)

	if got, ok := s.Peek("tok"); !ok || got != "a@example.com" {
		t.Fatalf("Peek = %q, %v", got, ok)
	}
	if got := s.Consume("tok"); got != "a@example.com" {
		t.Fatalf("first Consume = %q", got)
	}
	if got := s.Consume("tok"); got != "" {
		t.Fatalf("second Consume = %q, want empty", got)
	}
}

func TestConsumeExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	s.Set("tok", "a@example.com", time.Minute)
	now = now.Add(2 * time.Minute)

	if got := s.Consume("tok"); got != "" {
		t.Fatalf("Consume after expiry = %q", got)
	}
	if _, ok := s.Peek("tok"); ok {
		t.Fatal("expired token still visible")
	}
}

func TestSetIfAbsent(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	if !s.SetIfAbsent("view:1:abc", 30*time.Minute) {
		t.Fatal("first SetIfAbsent should store")
	}
	if s.SetIfAbsent("view:1:abc", 30*time.Minute) {
		t.Fatal("second SetIfAbsent within ttl should not store")
	}

	now = now.Add(31 * time.Minute)
	if !s.SetIfAbsent("view:1:abc", 30*time.Minute) {
		t.Fatal("SetIfAbsent after expiry should store")
	}
}

func TestSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	s.Set("a", "x", time.Minute)
	s.Set("b", "y", time.Hour)
	now = now.Add(2 * time.Minute)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if _, ok := s.Peek("b"); !ok {
		t.Fatal("live entry swept")
	}
}

package clock

import (
	"testing"
	"time"
)

func TestWindow(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		limit     time.Duration
		now       time.Time
		grace     time.Duration
		remaining time.Duration
		expired   bool
	}{
		{name: "untimed never expires", limit: 0, now: start.Add(72 * time.Hour), remaining: 0, expired: false},
		{name: "negative limit is untimed", limit: -time.Minute, now: start.Add(time.Hour), remaining: 0, expired: false},
		{name: "midway", limit: 30 * time.Minute, now: start.Add(10 * time.Minute), remaining: 20 * time.Minute, expired: false},
		{name: "exactly at deadline", limit: 30 * time.Minute, now: start.Add(30 * time.Minute), remaining: 0, expired: false},
		{name: "past deadline", limit: 30 * time.Minute, now: start.Add(31 * time.Minute), remaining: 0, expired: true},
		{name: "inside grace", limit: 30 * time.Minute, now: start.Add(31 * time.Minute), grace: 2 * time.Minute, remaining: 0, expired: false},
		{name: "past grace", limit: 30 * time.Minute, now: start.Add(33 * time.Minute), grace: 2 * time.Minute, remaining: 0, expired: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWindow(start, tc.limit)
			if got := w.Remaining(tc.now); got != tc.remaining {
				t.Fatalf("remaining: want %v, got %v", tc.remaining, got)
			}
			if got := w.Expired(tc.now, tc.grace); got != tc.expired {
				t.Fatalf("expired: want %v, got %v", tc.expired, got)
			}
		})
	}
}

func TestWindow_DeadlineAndTTL(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	untimed := NewWindow(start, 0)
	if !untimed.Deadline().IsZero() {
		t.Fatalf("untimed deadline should be zero, got %v", untimed.Deadline())
	}
	if got := untimed.TTL(time.Minute, 6*time.Hour); got != 6*time.Hour {
		t.Fatalf("untimed ttl: want fallback, got %v", got)
	}

	timed := NewWindow(start, 45*time.Minute)
	if want := start.Add(45 * time.Minute); !timed.Deadline().Equal(want) {
		t.Fatalf("deadline: want %v, got %v", want, timed.Deadline())
	}
	for _, tc := range []struct {
		grace, fallback, want time.Duration
	}{
		{grace: time.Minute, fallback: 6 * time.Hour, want: 46*time.Minute + 6*time.Hour},
		{grace: time.Minute, fallback: 10 * time.Minute, want: 56 * time.Minute},
		{grace: -time.Minute, fallback: 10 * time.Minute, want: 55 * time.Minute},
	} {
		got := timed.TTL(tc.grace, tc.fallback)
		if got != tc.want {
			t.Fatalf("timed ttl(grace=%v, fallback=%v): want %v, got %v", tc.grace, tc.fallback, tc.want, got)
		}
		// marker must still exist at the first instant Expired reports true
		if firstLate := timed.Deadline().Add(tc.grace).Add(time.Second); !start.Add(got).After(firstLate) {
			t.Fatalf("ttl %v ends before the first late instant %v", got, firstLate)
		}
	}
	if got := timed.Elapsed(start.Add(10 * time.Minute)); got != 10*time.Minute {
		t.Fatalf("elapsed: want 10m, got %v", got)
	}
	if got := timed.Elapsed(start.Add(-time.Second)); got != 0 {
		t.Fatalf("elapsed before start should clamp to 0, got %v", got)
	}
}

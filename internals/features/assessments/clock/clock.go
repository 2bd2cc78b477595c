// Package clock holds the time-limit arithmetic for a learner's run at an assessment.
package clock

import "time"

// Window is one learner's time box. Limit == 0 means untimed.
type Window struct {
	StartedAt time.Time
	Limit     time.Duration
}

func NewWindow(startedAt time.Time, limit time.Duration) Window {
	if limit < 0 {
		limit = 0
	}
	return Window{StartedAt: startedAt.UTC(), Limit: limit}
}

func (w Window) Timed() bool { return w.Limit > 0 }

// Deadline returns zero time for an untimed window.
func (w Window) Deadline() time.Time {
	if !w.Timed() {
		return time.Time{}
	}
	return w.StartedAt.Add(w.Limit)
}

// Remaining is clamped to zero; untimed windows report zero as well.
func (w Window) Remaining(now time.Time) time.Duration {
	if !w.Timed() {
		return 0
	}
	d := w.Deadline().Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether now is past deadline+grace.
func (w Window) Expired(now time.Time, grace time.Duration) bool {
	if !w.Timed() {
		return false
	}
	return now.After(w.Deadline().Add(grace))
}

// Elapsed between start and now, never negative.
func (w Window) Elapsed(now time.Time) time.Duration {
	d := now.Sub(w.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// TTL for a stored start marker. A timed marker is kept for fallback past
// deadline+grace, so a late submission still finds it and is rejected.
func (w Window) TTL(grace, fallback time.Duration) time.Duration {
	if !w.Timed() {
		return fallback
	}
	if grace < 0 {
		grace = 0
	}
	return w.Limit + grace + fallback
}

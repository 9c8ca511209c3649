// Package timespec parses the time bounds accepted by run-listing flags.
package timespec

import (
	"fmt"
	"time"
)

// Parse turns spec into an absolute time. Two forms are accepted:
//   - a Go duration ("1h", "30m", "2h45m") meaning that long before now
//   - an RFC3339 timestamp ("2026-10-29T13:00:00Z")
func Parse(spec string, now time.Time) (time.Time, error) {
	if spec == "" {
		return time.Time{}, fmt.Errorf("empty time specification")
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t, nil
	}

	if d, err := time.ParseDuration(spec); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("negative duration %s", spec)
		}
		return now.Add(-d), nil
	}

	return time.Time{}, fmt.Errorf("invalid time specification: %s (use a duration like '1h30m' or RFC3339 like '2026-10-29T13:00:00Z')", spec)
}

// Range is a half-open [Since, Until) window. A zero bound is open.
type Range struct {
	Since time.Time
	Until time.Time
}

// ParseRange parses --since and --until relative to now. Either may be
// empty. Since must come before Until when both are given.
func ParseRange(since, until string, now time.Time) (Range, error) {
	var (
		r   Range
		err error
	)

	if since != "" {
		if r.Since, err = Parse(since, now); err != nil {
			return Range{}, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until != "" {
		if r.Until, err = Parse(until, now); err != nil {
			return Range{}, fmt.Errorf("invalid --until: %w", err)
		}
	}

	if !r.Since.IsZero() && !r.Until.IsZero() && !r.Since.Before(r.Until) {
		return Range{}, fmt.Errorf("--since must be before --until")
	}
	return r, nil
}

// Contains reports whether t falls inside the window.
func (r Range) Contains(t time.Time) bool {
	if !r.Since.IsZero() && t.Before(r.Since) {
		return false
	}
	if !r.Until.IsZero() && !t.Before(r.Until) {
		return false
	}
	return true
}

// Open reports whether neither bound is set.
func (r Range) Open() bool {
	return r.Since.IsZero() && r.Until.IsZero()
}

// Package filter holds the cheap rejection stages applied to every
// candidate phrase, and the map-bounds stage applied after projection.
package filter

import (
	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/geo"
)

// Stage identifies where a candidate stopped.
type Stage int

const (
	Passed Stage = iota
	RejectedLength
	RejectedLocks
	RejectedBounds
)

func (s Stage) String() string {
	switch s {
	case Passed:
		return "passed"
	case RejectedLength:
		return "length"
	case RejectedLocks:
		return "locks"
	case RejectedBounds:
		return "bounds"
	}
	return "unknown"
}

// Criteria are the text constraints a phrase must meet. Lock indices must
// lie in [0, Length); config.Validate guarantees this.
type Criteria struct {
	Length int
	Locks  []config.LockPair
}

// FromConfig builds Criteria from a validated configuration.
func FromConfig(cfg *config.Config) Criteria {
	return Criteria{Length: cfg.CipherLength, Locks: cfg.Locks}
}

// Check runs the length check, then the lock check, stopping at the first
// failure.
func (c Criteria) Check(phrase string) Stage {
	if !c.LengthOK(phrase) {
		return RejectedLength
	}
	if !c.LocksOK(phrase) {
		return RejectedLocks
	}
	return Passed
}

// LengthOK reports whether the phrase is exactly the cipher length.
func (c Criteria) LengthOK(phrase string) bool {
	return len(phrase) == c.Length
}

// LocksOK reports whether every lock pair holds the same byte. The phrase
// must already have passed LengthOK.
func (c Criteria) LocksOK(phrase string) bool {
	for _, l := range c.Locks {
		if phrase[l[0]] != phrase[l[1]] {
			return false
		}
	}
	return true
}

// InBounds reports whether p lies inside the configured map rectangle.
func InBounds(p geo.Point, b config.Bounds) bool {
	return b.Contains(p)
}

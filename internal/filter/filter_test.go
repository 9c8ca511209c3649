package filter

import (
	"strings"
	"testing"

	"github.com/dyluth/z32/internal/config"
	"github.com/dyluth/z32/internal/geo"
	"github.com/stretchr/testify/assert"
)

const solution = "INTHREEANDTHREEEIGHTHSRADIANSTEN"

func TestCheck_Solution(t *testing.T) {
	c := FromConfig(config.Default())
	assert.Equal(t, Passed, c.Check(solution))
}

func TestCheck_WrongLength(t *testing.T) {
	c := FromConfig(config.Default())

	// Locks would hold on the 32-char prefix; length still rejects first
	assert.Equal(t, RejectedLength, c.Check(solution+"X"))
	assert.Equal(t, RejectedLength, c.Check(solution[:31]))
	assert.Equal(t, RejectedLength, c.Check(""))
}

func TestCheck_LockFailure(t *testing.T) {
	c := FromConfig(config.Default())

	// Same length, position 0 no longer matches position 25
	broken := "A" + solution[1:]
	assert.Len(t, broken, 32)
	assert.Equal(t, RejectedLocks, c.Check(broken))
}

func TestLocksOK_EachPair(t *testing.T) {
	c := Criteria{Length: 6, Locks: []config.LockPair{{0, 5}, {1, 3}}}

	assert.True(t, c.LocksOK("ABCBDA"))
	assert.False(t, c.LocksOK("ABCXDA"))
	assert.False(t, c.LocksOK("XBCBDA"))
}

func TestLocksOK_NoLocks(t *testing.T) {
	c := Criteria{Length: 4}
	assert.Equal(t, Passed, c.Check("ABCD"))
}

func TestLocksOK_SelfPair(t *testing.T) {
	c := Criteria{Length: 4, Locks: []config.LockPair{{2, 2}}}
	assert.Equal(t, Passed, c.Check(strings.Repeat("Q", 4)))
}

func TestInBounds(t *testing.T) {
	b := config.Bounds{South: 37.3, North: 38.8, West: -123.0, East: -121.0}

	assert.True(t, InBounds(geo.Point{Lat: 38.109952, Lon: -122.185349}, b))
	assert.True(t, InBounds(geo.Point{Lat: 37.3, Lon: -121.0}, b))
	assert.False(t, InBounds(geo.Point{Lat: 38.9, Lon: -122}, b))
	assert.False(t, InBounds(geo.Point{Lat: 38, Lon: -123.5}, b))
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "passed", Passed.String())
	assert.Equal(t, "length", RejectedLength.String())
	assert.Equal(t, "locks", RejectedLocks.String())
	assert.Equal(t, "bounds", RejectedBounds.String())
	assert.Equal(t, "unknown", Stage(99).String())
}

package gtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadClock verifies that the host clock agrees with the Go runtime.
func TestReadClock(t *testing.T) {
	got, err := ReadClock()
	require.NoError(t, err)
	diff := FromTime(time.Now()).Sub(got)
	assert.Less(t, diff.Abs(), Second)
}

// TestSystemClock verifies the default clock is the host clock.
func TestSystemClock(t *testing.T) {
	_, ok := DefaultClock().(SystemClock)
	assert.True(t, ok)
	assert.NotZero(t, SystemClock{}.Now().Unix())
}

// TestSetDefaultClock verifies swapping and restoring the package clock.
func TestSetDefaultClock(t *testing.T) {
	pinned := Unix(1234, 5)
	prev := SetDefaultClock(ClockFunc(func() Instant { return pinned }))
	assert.True(t, Now().Equal(pinned))

	restored := SetDefaultClock(nil)
	_, isFunc := restored.(ClockFunc)
	assert.True(t, isFunc)
	_, isSystem := DefaultClock().(SystemClock)
	assert.True(t, isSystem)

	SetDefaultClock(prev)
}

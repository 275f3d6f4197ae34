package monotonic

import (
	"sync"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Clock is a wall clock with an adjustable offset. It implements gtime.Clock
// and is safe for concurrent use.
type Clock struct {
	// offset is added to every reading of base. Protected by mu.
	offset gtime.Duration
	base   gtime.Clock
	mu     sync.RWMutex
}

// NewClock creates a Clock over the host clock with zero offset.
func NewClock() *Clock {
	return NewClockFrom(gtime.SystemClock{})
}

// NewClockFrom creates a Clock over base with zero offset.
func NewClockFrom(base gtime.Clock) *Clock {
	return &Clock{base: base}
}

// Now returns the base clock's time adjusted by the current offset.
func (c *Clock) Now() gtime.Instant {
	c.mu.RLock()
	offset := c.offset
	c.mu.RUnlock()
	return c.base.Now().Add(offset)
}

// SetOffset updates the correction applied by Now.
func (c *Clock) SetOffset(offset gtime.Duration) {
	c.mu.Lock()
	prev := c.offset
	c.offset = offset
	c.mu.Unlock()
	log.WithFields(logger.Fields{
		"at":       "Clock.SetOffset",
		"previous": prev.String(),
		"offset":   offset.String(),
	}).Debug("clock offset updated")
}

// Offset returns the current correction.
func (c *Clock) Offset() gtime.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// String describes the clock and its current offset.
func (c *Clock) String() string {
	return "offset(" + c.Offset().String() + ")"
}

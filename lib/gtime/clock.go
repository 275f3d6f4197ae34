package gtime

import (
	"sync"
	"time"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Clock is a source of wall-clock Instants.
type Clock interface {
	Now() Instant
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() Instant

// Now calls f.
func (f ClockFunc) Now() Instant {
	return f()
}

// SystemClock reads the host's realtime clock.
type SystemClock struct{}

// Now returns the host wall-clock time. If the host clock cannot be read the
// failure is logged and the Go runtime's clock is used instead.
func (SystemClock) Now() Instant {
	t, err := ReadClock()
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"at":       "SystemClock.Now",
			"fallback": "time.Now",
		}).Warn("host clock read failed")
		return FromTime(time.Now())
	}
	return t
}

var (
	clockMu      sync.RWMutex
	defaultClock Clock = SystemClock{}
)

// DefaultClock returns the Clock used by Now, Since and Until.
func DefaultClock() Clock {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return defaultClock
}

// SetDefaultClock replaces the Clock used by Now, Since and Until and returns
// the previous one. A nil clock restores SystemClock.
func SetDefaultClock(c Clock) Clock {
	if c == nil {
		c = SystemClock{}
	}
	clockMu.Lock()
	defer clockMu.Unlock()
	prev := defaultClock
	defaultClock = c
	log.WithFields(logger.Fields{
		"at":    "SetDefaultClock",
		"clock": clockName(c),
	}).Debug("default clock replaced")
	return prev
}

func clockName(c Clock) string {
	if s, ok := c.(interface{ String() string }); ok {
		return s.String()
	}
	switch c.(type) {
	case SystemClock:
		return "system"
	case ClockFunc:
		return "func"
	}
	return "custom"
}

//go:build linux

package monotonic

import (
	"time"

	"github.com/go-i2p/logger"
	"golang.org/x/sys/unix"
)

var fallbackOrigin = time.Now()

// readMonotonic reads CLOCK_MONOTONIC. If the clock cannot be read, the Go
// runtime's monotonic clock relative to package initialization is used.
func readMonotonic() Reading {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"at": "readMonotonic",
		}).Warn("clock_gettime(CLOCK_MONOTONIC) failed")
		return Reading(time.Since(fallbackOrigin))
	}
	return Reading(ts.Nano())
}

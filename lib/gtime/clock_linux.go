//go:build linux

package gtime

import (
	"github.com/samber/oops"
	"golang.org/x/sys/unix"
)

// ReadClock reads CLOCK_REALTIME.
func ReadClock() (Instant, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return Instant{}, oops.Wrapf(err, "clock_gettime(CLOCK_REALTIME) failed")
	}
	return Unix(int64(ts.Sec), int64(ts.Nsec)), nil
}

//go:build linux

package gtime

import (
	"errors"
	"time"

	"github.com/go-i2p/logger"
	"golang.org/x/sys/unix"
)

// sleep hands d to nanosleep(2), resuming with the remaining interval when
// a signal interrupts the call.
func sleep(d Duration) {
	req := unix.NsecToTimespec(int64(d))
	for {
		var rem unix.Timespec
		err := unix.Nanosleep(&req, &rem)
		if err == nil {
			return
		}
		if errors.Is(err, unix.EINTR) {
			req = rem
			continue
		}
		left := Duration(rem.Nano())
		log.WithError(err).WithFields(logger.Fields{
			"at":        "sleep",
			"requested": d.String(),
			"remaining": left.String(),
		}).Warn("nanosleep failed, falling back to time.Sleep")
		if left <= 0 || left > d {
			left = d
		}
		time.Sleep(left.Std())
		return
	}
}

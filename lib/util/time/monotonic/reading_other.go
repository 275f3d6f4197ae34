//go:build !linux

package monotonic

import "time"

var origin = time.Now()

// readMonotonic uses the Go runtime's monotonic clock relative to package
// initialization.
func readMonotonic() Reading {
	return Reading(time.Since(origin))
}

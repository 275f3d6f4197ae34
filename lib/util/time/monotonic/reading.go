package monotonic

import "github.com/go-i2p/go-gtime/lib/gtime"

// Reading is a monotonic clock sample in nanoseconds since an unspecified
// origin.
type Reading int64

// NowReading samples the monotonic clock.
func NowReading() Reading {
	return readMonotonic()
}

// Sub returns r-o.
func (r Reading) Sub(o Reading) gtime.Duration {
	return gtime.Duration(r - o)
}

// Add returns the Reading d after r.
func (r Reading) Add(d gtime.Duration) Reading {
	return r + Reading(d)
}

// Since returns the monotonic time elapsed since r.
func Since(r Reading) gtime.Duration {
	return NowReading().Sub(r)
}

package gtime

import (
	"math"
	"strconv"
	"time"
)

// Duration is a signed count of nanoseconds.
type Duration int64

const (
	Nanosecond  Duration = 1
	Microsecond          = 1000 * Nanosecond
	Millisecond          = 1000 * Microsecond
	Second               = 1000 * Millisecond
	Minute               = 60 * Second
	Hour                 = 60 * Minute
)

const (
	MinDuration Duration = math.MinInt64
	MaxDuration Duration = math.MaxInt64
)

// NewDuration wraps a nanosecond count. No validation is performed.
func NewDuration(ns int64) Duration {
	return Duration(ns)
}

// FromStd converts a time.Duration.
func FromStd(d time.Duration) Duration {
	return Duration(d)
}

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Seconds returns d as a floating point number of seconds.
func (d Duration) Seconds() float64 {
	return float64(d) / 1e9
}

// Milliseconds returns d as a floating point number of milliseconds.
func (d Duration) Milliseconds() float64 {
	return float64(d) / 1e6
}

// Nanoseconds returns d as a floating point number of nanoseconds.
func (d Duration) Nanoseconds() float64 {
	return float64(d)
}

// Add returns d+o, clamped to [MinDuration, MaxDuration].
func (d Duration) Add(o Duration) Duration {
	s := d + o
	if o > 0 && s < d {
		return MaxDuration
	}
	if o < 0 && s > d {
		return MinDuration
	}
	return s
}

// Abs returns the absolute value of d. MinDuration maps to MaxDuration.
func (d Duration) Abs() Duration {
	switch {
	case d >= 0:
		return d
	case d == MinDuration:
		return MaxDuration
	default:
		return -d
	}
}

// String renders d in the compact "1h2m3.5s" form. Hours and minutes are
// omitted when zero, and a zero duration renders as "0s".
func (d Duration) String() string {
	var buf [32]byte
	return string(d.appendString(buf[:0]))
}

// StringWithin renders d like String but keeps at most capacity-1 bytes,
// mirroring a NUL-terminated buffer of the given size. The second result
// reports whether the output was truncated.
func (d Duration) StringWithin(capacity int) (string, bool) {
	return truncate(d.String(), capacity)
}

func (d Duration) appendString(b []byte) []byte {
	// uint64 so that MinDuration negates without overflow
	u := uint64(d)
	if d < 0 {
		b = append(b, '-')
		u = -u
	}

	hours := u / uint64(Hour)
	u %= uint64(Hour)
	minutes := u / uint64(Minute)
	u %= uint64(Minute)
	seconds := u / uint64(Second)
	frac := u % uint64(Second)

	if hours > 0 {
		b = strconv.AppendUint(b, hours, 10)
		b = append(b, 'h')
	}
	if minutes > 0 {
		b = strconv.AppendUint(b, minutes, 10)
		b = append(b, 'm')
	}
	if seconds > 0 || frac > 0 || (hours == 0 && minutes == 0) {
		if frac == 0 {
			b = strconv.AppendUint(b, seconds, 10)
		} else {
			s := float64(seconds) + float64(frac)/1e9
			b = strconv.AppendFloat(b, s, 'g', 9, 64)
		}
		b = append(b, 's')
	}
	return b
}

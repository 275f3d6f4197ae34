package gtime

import (
	"math"
	"time"
)

const nanosPerSecond = int64(Second)

// Instant is a point in time: whole seconds since the Unix epoch plus a
// nanosecond remainder in [0, 1e9). The zero value is the epoch itself.
type Instant struct {
	sec  int64
	nsec int64
}

var (
	minInstant = Instant{sec: math.MinInt64, nsec: 0}
	maxInstant = Instant{sec: math.MaxInt64, nsec: nanosPerSecond - 1}
)

// Unix returns the Instant sec seconds and nsec nanoseconds after the epoch.
// nsec may lie outside [0, 1e9); it is folded into sec using floor division,
// so Unix(0, -1) is one nanosecond before the epoch.
func Unix(sec, nsec int64) Instant {
	if nsec >= 0 && nsec < nanosPerSecond {
		return Instant{sec: sec, nsec: nsec}
	}
	carry := nsec / nanosPerSecond
	nsec %= nanosPerSecond
	if nsec < 0 {
		nsec += nanosPerSecond
		carry--
	}
	s, ok := addInt64(sec, carry)
	if !ok {
		if carry > 0 {
			return maxInstant
		}
		return minInstant
	}
	return Instant{sec: s, nsec: nsec}
}

// FromTime converts a time.Time, dropping its location and monotonic reading.
func FromTime(t time.Time) Instant {
	return Instant{sec: t.Unix(), nsec: int64(t.Nanosecond())}
}

// Now returns the current wall-clock time from the default Clock.
func Now() Instant {
	return DefaultClock().Now()
}

// Since returns the time elapsed since past.
func Since(past Instant) Duration {
	return Now().Sub(past)
}

// Until returns the duration from now until t.
func Until(t Instant) Duration {
	return t.Sub(Now())
}

// Unix returns the whole seconds since the epoch.
func (t Instant) Unix() int64 {
	return t.sec
}

// Nanosecond returns the sub-second remainder, in [0, 1e9).
func (t Instant) Nanosecond() int64 {
	return t.nsec
}

// UnixMilli returns t as milliseconds since the epoch. The result is
// undefined when it does not fit in an int64.
func (t Instant) UnixMilli() int64 {
	return t.sec*1e3 + t.nsec/1e6
}

// IsZero reports whether t is the epoch.
func (t Instant) IsZero() bool {
	return t.sec == 0 && t.nsec == 0
}

// Equal reports whether t and u denote exactly the same nanosecond.
func (t Instant) Equal(u Instant) bool {
	return t.sec == u.sec && t.nsec == u.nsec
}

// Compare returns -1, 0 or +1 as t is before, equal to or after u.
func (t Instant) Compare(u Instant) int {
	switch {
	case t.sec < u.sec:
		return -1
	case t.sec > u.sec:
		return 1
	case t.nsec < u.nsec:
		return -1
	case t.nsec > u.nsec:
		return 1
	}
	return 0
}

// Before reports whether t is earlier than u.
func (t Instant) Before(u Instant) bool {
	return t.Compare(u) < 0
}

// After reports whether t is later than u.
func (t Instant) After(u Instant) bool {
	return t.Compare(u) > 0
}

// Add returns t+d. Results beyond the representable range of seconds are
// clamped to the earliest or latest Instant.
func (t Instant) Add(d Duration) Instant {
	dsec := int64(d / Second)
	nsec := t.nsec + int64(d%Second)

	sec, ok := addInt64(t.sec, dsec)
	if !ok {
		if dsec > 0 {
			return maxInstant
		}
		return minInstant
	}

	var carry int64
	switch {
	case nsec < 0:
		nsec += nanosPerSecond
		carry = -1
	case nsec >= nanosPerSecond:
		nsec -= nanosPerSecond
		carry = 1
	}
	if sec, ok = addInt64(sec, carry); !ok {
		if carry > 0 {
			return maxInstant
		}
		return minInstant
	}
	return Instant{sec: sec, nsec: nsec}
}

// Sub returns t-u, clamped to [MinDuration, MaxDuration].
func (t Instant) Sub(u Instant) Duration {
	sec, ok := subInt64(t.sec, u.sec)
	if !ok {
		if t.sec > u.sec {
			return MaxDuration
		}
		return MinDuration
	}
	nsec := t.nsec - u.nsec

	// give both parts the same sign so the magnitude grows monotonically
	if sec > 0 && nsec < 0 {
		sec--
		nsec += nanosPerSecond
	} else if sec < 0 && nsec > 0 {
		sec++
		nsec -= nanosPerSecond
	}

	const (
		maxSec = int64(MaxDuration / Second)
		minSec = int64(MinDuration / Second)
	)
	switch {
	case sec > maxSec:
		return MaxDuration
	case sec < minSec:
		return MinDuration
	}
	return (Duration(sec) * Second).Add(Duration(nsec))
}

// Time converts t to a time.Time in the host's local zone.
func (t Instant) Time() time.Time {
	return time.Unix(t.sec, t.nsec)
}

// Weekday returns the day of the week of t in the host's local zone.
// Sunday is 0.
func (t Instant) Weekday() time.Weekday {
	return t.Time().Weekday()
}

// IsLeapYear reports whether year is divisible by 4 and either not divisible
// by 25 or divisible by 16.
func IsLeapYear(year int64) bool {
	return year&3 == 0 && (year%25 != 0 || year&15 == 0)
}

func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return s, false
	}
	return s, true
}

func subInt64(a, b int64) (int64, bool) {
	s := a - b
	if (b > 0 && s > a) || (b < 0 && s < a) {
		return s, false
	}
	return s, true
}

// Package gtime provides a small wall-clock time model built directly on the
// host's clock and sleep primitives.
//
// An Instant is a count of whole seconds since the Unix epoch plus a
// nanosecond remainder that is always kept in [0, 1e9). A Duration is a
// signed count of nanoseconds. Arithmetic between the two saturates at the
// edges of the int64 domain instead of wrapping:
//
//	start := gtime.Now()
//	later := start.Add(2500 * gtime.Millisecond)
//	gtime.Sleep(later.Sub(start))
//	fmt.Println(gtime.Since(start)) // e.g. "2.50012345s"
//
// Instants are rendered through strftime-style layouts in the host's local
// time zone:
//
//	s, err := gtime.Now().Format("%Y-%m-%d %H:%M:%S")
//
// Operations that produce text have a capacity-checked variant
// (Duration.StringWithin, Instant.FormatWithin) that reports whether the
// result had to be cut short.
//
// The package holds no mutable state other than the default Clock, which
// can be replaced with SetDefaultClock (for example by an NTP-corrected
// clock from the sntp package).
package gtime

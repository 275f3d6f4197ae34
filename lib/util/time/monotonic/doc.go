// Package monotonic provides clock-jump-safe elapsed time tracking on top of
// gtime.
//
// gtime.Instant is a wall-clock value: if the host clock is stepped (NTP
// correction, manual change) the difference between two Instants includes
// the step. A Reading comes from the host's monotonic clock instead and is
// only meaningful relative to another Reading taken by the same process, but
// differences between Readings are immune to wall-clock adjustments.
//
// Deadline and Stopwatch are built on Readings:
//
//	deadline := monotonic.NewDeadline(10 * gtime.Minute)
//	// ... later ...
//	if deadline.IsExpired() {
//	    // safe from clock steps
//	}
//
//	sw := monotonic.StartStopwatch()
//	doWork()
//	fmt.Println(sw.Elapsed())
//
// Clock is the other half: a wall clock with an adjustable offset, used to
// apply NTP corrections without touching the host clock.
package monotonic

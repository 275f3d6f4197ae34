// Package skew validates that a timestamp produced elsewhere is close enough
// to the local clock to be trusted.
//
// Usage:
//
//	if err := skew.ValidateInstant(received); err != nil {
//	    // reject the message
//	}
//
// The local clock is gtime.Now, so installing an NTP-corrected clock with
// gtime.SetDefaultClock also corrects skew checks.
package skew

// Package sntp keeps a gtime clock corrected against NTP servers.
//
// A Timestamper queries a few randomly chosen servers per cycle, requires the
// samples to agree, and applies the median offset to a monotonic.Clock.
// Background cycles repeat at the configured query frequency with random
// jitter; after failures the interval drops to 30 seconds, and after
// repeated failures it backs off to 30 minutes.
//
// The Timestamper implements gtime.Clock, so it can be installed with
// gtime.SetDefaultClock to make gtime.Now return corrected time.
package sntp

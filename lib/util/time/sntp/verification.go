package sntp

import (
	"github.com/beevik/ntp"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/logger"
)

const (
	maxRTT            = 2 * gtime.Second // Max acceptable round-trip time
	maxRootDispersion = 1 * gtime.Second // Max acceptable root dispersion
	maxRootDelay      = 1 * gtime.Second // Max acceptable root delay
	maxStratum        = 15
)

// validateResponse validates the SNTP response against multiple criteria including
// leap indicator, stratum level, timing metrics, time value, and root metrics.
// maxOffset bounds the reported clock offset.
func validateResponse(response *ntp.Response, maxOffset gtime.Duration) bool {
	if response == nil {
		log.WithField("at", "validateResponse").Debug("Invalid response: nil")
		return false
	}
	return validateLeapAndStratum(response) &&
		validateTimingMetrics(response, maxOffset) &&
		validateTimeValue(response) &&
		validateRootMetrics(response)
}

// validateLeapAndStratum checks the leap indicator and stratum level of the response.
func validateLeapAndStratum(response *ntp.Response) bool {
	if response.Leap == ntp.LeapNotInSync {
		log.WithField("at", "validateLeapAndStratum").Debug("Invalid response: server clock not synchronized")
		return false
	}
	if response.Stratum == 0 || response.Stratum > maxStratum {
		log.WithFields(logger.Fields{
			"at":      "validateLeapAndStratum",
			"stratum": response.Stratum,
		}).Debug("Invalid response: stratum out of range")
		return false
	}
	return true
}

// validateTimingMetrics checks round-trip delay and clock offset against acceptable bounds.
func validateTimingMetrics(response *ntp.Response, maxOffset gtime.Duration) bool {
	rtt := gtime.FromStd(response.RTT)
	if rtt < 0 || rtt > maxRTT {
		log.WithFields(logger.Fields{
			"at":  "validateTimingMetrics",
			"rtt": rtt.String(),
		}).Debug("Invalid response: round-trip delay out of bounds")
		return false
	}
	offset := gtime.FromStd(response.ClockOffset)
	if offset.Abs() > maxOffset {
		log.WithFields(logger.Fields{
			"at":         "validateTimingMetrics",
			"offset":     offset.String(),
			"max_offset": maxOffset.String(),
		}).Debug("Invalid response: clock offset out of bounds")
		return false
	}
	return true
}

// validateTimeValue ensures the response time is not zero.
func validateTimeValue(response *ntp.Response) bool {
	if response.Time.IsZero() {
		log.WithField("at", "validateTimeValue").Debug("Invalid response: zero time")
		return false
	}
	return true
}

// validateRootMetrics checks root dispersion and root delay against maximum thresholds.
func validateRootMetrics(response *ntp.Response) bool {
	if d := gtime.FromStd(response.RootDispersion); d > maxRootDispersion {
		log.WithFields(logger.Fields{
			"at":              "validateRootMetrics",
			"root_dispersion": d.String(),
		}).Debug("Invalid response: root dispersion too high")
		return false
	}
	if d := gtime.FromStd(response.RootDelay); d > maxRootDelay {
		log.WithFields(logger.Fields{
			"at":         "validateRootMetrics",
			"root_delay": d.String(),
		}).Debug("Invalid response: root delay too high")
		return false
	}
	return true
}

package skew

import (
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

// MaxClockSkew is the default tolerance between a timestamp and the local
// clock, in either direction.
const MaxClockSkew = 60 * gtime.Minute

// nowFunc is overridable for testing.
var nowFunc = gtime.Now

// ValidateInstant checks that published lies within ±MaxClockSkew of the
// local clock. The zero Instant is always rejected.
func ValidateInstant(published gtime.Instant) error {
	return validate(published, MaxClockSkew, true)
}

// IsInstantValid is ValidateInstant as a boolean.
func IsInstantValid(published gtime.Instant) bool {
	return ValidateInstant(published) == nil
}

// ValidateInstantWithSkew checks published against a custom tolerance.
// A non-positive maxSkew is an error.
func ValidateInstantWithSkew(published gtime.Instant, maxSkew gtime.Duration) error {
	if maxSkew <= 0 {
		return oops.Errorf("clock skew: maxSkew must be positive, got %s", maxSkew)
	}
	return validate(published, maxSkew, false)
}

// Skew returns now minus published: positive when published is in the past.
func Skew(published gtime.Instant) gtime.Duration {
	return nowFunc().Sub(published)
}

func validate(published gtime.Instant, maxSkew gtime.Duration, verbose bool) error {
	if published.IsZero() {
		return oops.Errorf("clock skew: published timestamp is zero")
	}

	now := nowFunc()
	skew := now.Sub(published)

	if skew > maxSkew {
		if verbose {
			logRejection(published, now, skew, maxSkew, "past")
		}
		return oops.Errorf("clock skew: timestamp is %s in the past (max %s)", skew, maxSkew)
	}
	if skew < -maxSkew {
		if verbose {
			logRejection(published, now, skew.Abs(), maxSkew, "future")
		}
		return oops.Errorf("clock skew: timestamp is %s in the future (max %s)", skew.Abs(), maxSkew)
	}
	return nil
}

func logRejection(published, now gtime.Instant, skew, maxSkew gtime.Duration, direction string) {
	log.WithFields(logger.Fields{
		"at":        "skew.validate",
		"published": published.Unix(),
		"now":       now.Unix(),
		"skew":      skew.String(),
		"max":       maxSkew.String(),
		"direction": direction,
	}).Warn("rejecting timestamp outside the clock skew window")
}

package sntp

import (
	"context"
	"slices"

	"github.com/beevik/ntp"
	"github.com/go-i2p/crypto/rand"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// sample is one validated server answer.
type sample struct {
	server  string
	offset  gtime.Duration
	stratum uint8
}

// queryTime collects concurringServers agreeing samples and applies their
// median. It reports whether the clock was updated.
func (t *Timestamper) queryTime(ctx context.Context) bool {
	t.mutex.Lock()
	servers := make([]string, len(t.servers))
	copy(servers, t.servers)
	concurring := t.concurringServers
	timeout := t.timeout
	maxVariance := t.maxVariance
	t.mutex.Unlock()

	t.setSyncedStatus(false)

	found := make([]gtime.Duration, 0, concurring)
	var expected gtime.Duration
	stratum := uint8(0)

	for i := 0; i < concurring; i++ {
		s, err := t.querySample(ctx, servers, timeout, maxVariance)
		if err != nil {
			log.WithFields(logger.Fields{
				"at":     "queryTime",
				"sample": i,
			}).WithError(err).Debug("no usable NTP sample")
			return false
		}

		if i == 0 {
			if !t.validateFirstSample(s.offset, maxVariance) {
				t.metrics.queries.WithLabelValues(resultRejected).Inc()
				return false
			}
			expected = s.offset
		} else if !validateAdditionalSample(s.offset, expected, maxVariance) {
			log.WithFields(logger.Fields{
				"at":       "queryTime",
				"server":   s.server,
				"offset":   s.offset.String(),
				"expected": expected.String(),
			}).Debug("NTP sample disagrees with first sample")
			t.metrics.queries.WithLabelValues(resultRejected).Inc()
			return false
		}
		found = append(found, s.offset)
		if stratum == 0 || s.stratum < stratum {
			stratum = s.stratum
		}
	}

	median := calculateMedian(found)
	log.WithFields(logger.Fields{
		"at":      "queryTime",
		"offset":  median.String(),
		"samples": len(found),
		"stratum": stratum,
	}).Debug("applying NTP offset")
	t.stampTime(median, stratum)
	return true
}

// querySample asks random servers until one answers validly, trying at most
// len(servers) times.
func (t *Timestamper) querySample(ctx context.Context, servers []string, timeout, maxVariance gtime.Duration) (sample, error) {
	attempts := len(servers)
	if attempts == 0 {
		return sample{}, oops.Errorf("no NTP servers available")
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return sample{}, oops.Wrapf(err, "NTP query cancelled")
		}
		s, err := t.performSingleNTPQuery(servers, timeout, maxVariance)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	return sample{}, lastErr
}

// performSingleNTPQuery executes a single NTP query against a randomly selected server.
func (t *Timestamper) performSingleNTPQuery(servers []string, timeout, maxVariance gtime.Duration) (sample, error) {
	server := selectRandomServer(servers)
	if server == "" {
		return sample{}, oops.Errorf("no NTP servers available")
	}

	response, err := t.ntpClient.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout.Std()})
	if err != nil {
		t.metrics.queries.WithLabelValues(resultError).Inc()
		log.WithError(err).WithField("server", server).Debug("NTP query failed")
		return sample{}, oops.Wrapf(err, "NTP query to %s failed", server)
	}

	if !validateResponse(response, maxVariance) {
		t.metrics.queries.WithLabelValues(resultInvalid).Inc()
		log.WithField("server", server).Debug("NTP response failed validation")
		return sample{}, oops.Errorf("NTP response validation failed for server %s", server)
	}

	t.metrics.queries.WithLabelValues(resultSuccess).Inc()
	return sample{
		server:  server,
		offset:  gtime.FromStd(response.ClockOffset),
		stratum: response.Stratum,
	}, nil
}

// selectRandomServer chooses a random server from the list.
func selectRandomServer(servers []string) string {
	if len(servers) == 0 {
		return ""
	}
	return servers[rand.Intn(len(servers))]
}

// validateFirstSample checks if the first sample is within maxVariance and
// records whether the host clock is well synced.
func (t *Timestamper) validateFirstSample(offset, maxVariance gtime.Duration) bool {
	if offset.Abs() < maxVariance {
		if offset.Abs() < wellSyncedThreshold {
			t.setSyncedStatus(true)
		}
		return true
	}
	log.WithFields(logger.Fields{
		"at":           "validateFirstSample",
		"offset":       offset.String(),
		"max_variance": maxVariance.String(),
	}).Debug("first NTP sample outside allowed variance")
	return false
}

// validateAdditionalSample checks if subsequent samples are consistent with the expected offset.
func validateAdditionalSample(offset, expected, maxVariance gtime.Duration) bool {
	return offset.Add(-expected).Abs() <= maxVariance
}

// calculateMedian returns the middle value, or the mean of the two middle
// values for even lengths.
func calculateMedian(offsets []gtime.Duration) gtime.Duration {
	switch len(offsets) {
	case 0:
		return 0
	case 1:
		return offsets[0]
	}

	sorted := slices.Clone(offsets)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		a, b := sorted[mid-1], sorted[mid]
		return a/2 + b/2 + (a%2+b%2)/2
	}
	return sorted[mid]
}

// setSyncedStatus safely sets wellSynced status with mutex protection.
func (t *Timestamper) setSyncedStatus(synced bool) {
	t.mutex.Lock()
	t.wellSynced = synced
	t.mutex.Unlock()
}

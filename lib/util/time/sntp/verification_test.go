package sntp

import (
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/stretchr/testify/assert"
)

// TestValidateResponse verifies each rejection criterion.
func TestValidateResponse(t *testing.T) {
	maxOffset := 10 * gtime.Second
	tests := []struct {
		name   string
		mutate func(*ntp.Response)
		valid  bool
	}{
		{"valid", func(*ntp.Response) {}, true},
		{"not in sync", func(r *ntp.Response) { r.Leap = ntp.LeapNotInSync }, false},
		{"stratum zero", func(r *ntp.Response) { r.Stratum = 0 }, false},
		{"stratum too high", func(r *ntp.Response) { r.Stratum = 16 }, false},
		{"stratum fifteen", func(r *ntp.Response) { r.Stratum = 15 }, true},
		{"negative rtt", func(r *ntp.Response) { r.RTT = -time.Millisecond }, false},
		{"rtt too long", func(r *ntp.Response) { r.RTT = 3 * time.Second }, false},
		{"offset at bound", func(r *ntp.Response) { r.ClockOffset = -10 * time.Second }, true},
		{"offset too large", func(r *ntp.Response) { r.ClockOffset = 11 * time.Second }, false},
		{"zero time", func(r *ntp.Response) { r.Time = time.Time{} }, false},
		{"root dispersion", func(r *ntp.Response) { r.RootDispersion = 2 * time.Second }, false},
		{"root delay", func(r *ntp.Response) { r.RootDelay = 2 * time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := validResponse(0)
			tt.mutate(resp)
			assert.Equal(t, tt.valid, validateResponse(resp, maxOffset))
		})
	}
}

// TestValidateResponseNil verifies a nil response is rejected.
func TestValidateResponseNil(t *testing.T) {
	assert.False(t, validateResponse(nil, gtime.Second))
}

// TestValidateAdditionalSample verifies the spread check is inclusive.
func TestValidateAdditionalSample(t *testing.T) {
	assert.True(t, validateAdditionalSample(11*gtime.Second, gtime.Second, 10*gtime.Second))
	assert.False(t, validateAdditionalSample(-9*gtime.Second-1, gtime.Second, 10*gtime.Second))
}

package gtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestExtractZoneName verifies parsing of zoneinfo paths and bare names.
func TestExtractZoneName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/usr/share/zoneinfo/America/New_York", "America/New_York"},
		{"../usr/share/zoneinfo/Europe/Berlin", "Europe/Berlin"},
		{"Asia/Tokyo", "Asia/Tokyo"},
		{"  Europe/Paris \n", "Europe/Paris"},
		{"UTC", ""},
		{"/etc/localtime", ""},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, extractZoneName(tc.in), "input %q", tc.in)
	}
}

// TestLocalZoneName_TZEnvVar verifies that TZ takes precedence.
func TestLocalZoneName_TZEnvVar(t *testing.T) {
	if _, err := time.LoadLocation("America/New_York"); err != nil {
		t.Skip("zoneinfo database not available")
	}
	t.Setenv("TZ", "America/New_York")
	assert.Equal(t, "America/New_York", LocalZoneName())

	t.Setenv("TZ", ":/usr/share/zoneinfo/Europe/Berlin")
	assert.Equal(t, "Europe/Berlin", LocalZoneName())
}

// TestLocalZoneName_NeverEmpty verifies there is always some answer.
func TestLocalZoneName_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, LocalZoneName())
}

// TestLocalZoneName_BareNames verifies zone names without an Area/ prefix.
func TestLocalZoneName_BareNames(t *testing.T) {
	t.Setenv("TZ", "UTC")
	assert.Equal(t, "UTC", LocalZoneName())

	if _, err := time.LoadLocation("Japan"); err != nil {
		t.Skip("zoneinfo database not available")
	}
	t.Setenv("TZ", "Japan")
	assert.Equal(t, "Japan", LocalZoneName())
}

// TestLocalZoneName_EmptyOrInvalidTZ verifies that a set but empty or
// unloadable TZ means UTC, as the Go runtime renders it.
func TestLocalZoneName_EmptyOrInvalidTZ(t *testing.T) {
	t.Setenv("TZ", "")
	assert.Equal(t, "UTC", LocalZoneName())

	t.Setenv("TZ", "Nowhere/Imaginary")
	assert.Equal(t, "UTC", LocalZoneName())
}

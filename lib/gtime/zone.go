package gtime

import (
	"os"
	"strings"
	"time"
)

// LocalZoneName returns the IANA name of the zone the host's local time is
// rendered in, such as "Europe/Berlin" or "Japan". A set TZ variable decides
// it the way the Go runtime does: empty or unloadable means "UTC". Only when
// TZ is unset are /etc/timezone, the /etc/localtime symlink and finally
// time.Local consulted.
func LocalZoneName() string {
	if tz, ok := os.LookupEnv("TZ"); ok {
		return zoneFromTZ(tz)
	}
	if data, err := os.ReadFile("/etc/timezone"); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			return name
		}
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if name := extractZoneName(target); name != "" {
			return name
		}
	}
	return time.Local.String()
}

func zoneFromTZ(tz string) string {
	tz = strings.TrimSpace(strings.TrimPrefix(tz, ":"))
	if tz == "" {
		return "UTC"
	}
	if strings.Contains(tz, "zoneinfo/") {
		if name := extractZoneName(tz); name != "" {
			return name
		}
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "UTC"
	}
	return tz
}

// extractZoneName takes either a zoneinfo path or a bare Area/Location name.
func extractZoneName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if idx := strings.Index(s, "zoneinfo/"); idx != -1 {
		return s[idx+len("zoneinfo/"):]
	}
	if !strings.HasPrefix(s, "/") && strings.Contains(s, "/") {
		return s
	}
	return ""
}

package gtime

import "unicode/utf8"

// truncate cuts s so that it fits a buffer of capacity bytes including a
// terminating NUL. A partial UTF-8 sequence is never left at the end.
func truncate(s string, capacity int) (string, bool) {
	if capacity <= 0 {
		return "", s != ""
	}
	limit := capacity - 1
	if len(s) <= limit {
		return s, false
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit], true
}

package gtime

import (
	"github.com/go-i2p/logger"
	"github.com/lestrrat-go/strftime"
	"github.com/samber/oops"
)

// DefaultLayout renders "2006-01-02 15:04:05"-style local timestamps.
const DefaultLayout = "%Y-%m-%d %H:%M:%S"

// Formatter is a compiled strftime layout. Besides the POSIX conversion
// specifiers it understands %L (milliseconds) and %s (seconds since the
// epoch). A Formatter is safe for concurrent use.
type Formatter struct {
	layout string
	f      *strftime.Strftime
}

// NewFormatter compiles layout. Unknown conversion specifiers are an error.
func NewFormatter(layout string) (*Formatter, error) {
	f, err := strftime.New(layout,
		strftime.WithMilliseconds('L'),
		strftime.WithUnixSeconds('s'),
	)
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"at":     "NewFormatter",
			"layout": layout,
		}).Debug("invalid layout")
		return nil, oops.Wrapf(err, "invalid layout %q", layout)
	}
	return &Formatter{layout: layout, f: f}, nil
}

// Layout returns the layout the Formatter was compiled from.
func (f *Formatter) Layout() string {
	return f.layout
}

// Format renders t in the host's local zone.
func (f *Formatter) Format(t Instant) string {
	return f.f.FormatString(t.Time())
}

// FormatWithin renders t but keeps at most capacity-1 bytes. The second
// result reports whether the output was truncated.
func (f *Formatter) FormatWithin(t Instant, capacity int) (string, bool) {
	return truncate(f.Format(t), capacity)
}

// Format renders t through a strftime-style layout in the host's local zone.
func (t Instant) Format(layout string) (string, error) {
	f, err := NewFormatter(layout)
	if err != nil {
		return "", err
	}
	return f.Format(t), nil
}

// FormatWithin is Format with an output capacity; see Formatter.FormatWithin.
func (t Instant) FormatWithin(layout string, capacity int) (string, bool, error) {
	f, err := NewFormatter(layout)
	if err != nil {
		return "", false, err
	}
	s, truncated := f.FormatWithin(t, capacity)
	return s, truncated, nil
}

// String renders t with DefaultLayout.
func (t Instant) String() string {
	return defaultFormatter.Format(t)
}

var defaultFormatter = mustFormatter(DefaultLayout)

func mustFormatter(layout string) *Formatter {
	f, err := NewFormatter(layout)
	if err != nil {
		panic(err)
	}
	return f
}

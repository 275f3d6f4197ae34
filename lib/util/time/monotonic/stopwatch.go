package monotonic

import (
	"sync"

	"github.com/go-i2p/go-gtime/lib/gtime"
)

// Stopwatch measures elapsed time on the monotonic clock. It is safe for
// concurrent use.
type Stopwatch struct {
	mu    sync.Mutex
	start Reading
	lap   Reading
}

// StartStopwatch returns a running Stopwatch.
func StartStopwatch() *Stopwatch {
	now := NowReading()
	return &Stopwatch{start: now, lap: now}
}

// Elapsed returns the time since the Stopwatch was started or last reset.
func (s *Stopwatch) Elapsed() gtime.Duration {
	s.mu.Lock()
	start := s.start
	s.mu.Unlock()
	return Since(start)
}

// Lap returns the time since the previous Lap (or the start) and begins a
// new lap.
func (s *Stopwatch) Lap() gtime.Duration {
	now := NowReading()
	s.mu.Lock()
	defer s.mu.Unlock()
	d := now.Sub(s.lap)
	s.lap = now
	return d
}

// Reset restarts the Stopwatch and returns the time elapsed before the reset.
func (s *Stopwatch) Reset() gtime.Duration {
	now := NowReading()
	s.mu.Lock()
	defer s.mu.Unlock()
	d := now.Sub(s.start)
	s.start, s.lap = now, now
	return d
}

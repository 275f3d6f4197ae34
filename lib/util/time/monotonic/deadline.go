package monotonic

import (
	"sync"

	"github.com/go-i2p/go-gtime/lib/gtime"
)

// Deadline is a point after which something has expired. Expiry is measured
// on the monotonic clock, so wall-clock steps cannot make it fire early or
// late. Deadline is safe for concurrent use.
type Deadline struct {
	mu        sync.RWMutex
	createdAt Reading
	wall      gtime.Instant
	lifetime  gtime.Duration
}

// NewDeadline creates a Deadline that expires lifetime from now.
//
// Panics if lifetime is negative.
func NewDeadline(lifetime gtime.Duration) *Deadline {
	return NewDeadlineAt(NowReading(), lifetime)
}

// NewDeadlineAt creates a Deadline that expires lifetime after start. This
// is useful when the start was sampled earlier than the Deadline is built.
//
// Panics if lifetime is negative.
func NewDeadlineAt(start Reading, lifetime gtime.Duration) *Deadline {
	if lifetime < 0 {
		panic("monotonic: negative lifetime")
	}
	return &Deadline{
		createdAt: start,
		wall:      gtime.Now().Add(-Since(start)),
		lifetime:  lifetime,
	}
}

// IsExpired reports whether the lifetime has elapsed.
func (d *Deadline) IsExpired() bool {
	return d.Elapsed() >= d.Lifetime()
}

// Remaining returns the time left before expiry, or zero once expired.
func (d *Deadline) Remaining() gtime.Duration {
	remaining := d.Lifetime() - d.Elapsed()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Elapsed returns the time since the Deadline started.
func (d *Deadline) Elapsed() gtime.Duration {
	return Since(d.createdAt)
}

// Lifetime returns the configured lifetime including extensions.
func (d *Deadline) Lifetime() gtime.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lifetime
}

// CreatedAt returns the wall-clock time at which the Deadline started. It is
// for display only; use Elapsed or Remaining for arithmetic.
func (d *Deadline) CreatedAt() gtime.Instant {
	return d.wall
}

// ExpiresAt returns the wall-clock time at which the Deadline expires, for
// display only.
func (d *Deadline) ExpiresAt() gtime.Instant {
	return d.wall.Add(d.Lifetime())
}

// Extend adds to the lifetime.
//
// Panics if additional is negative.
func (d *Deadline) Extend(additional gtime.Duration) {
	if additional < 0 {
		panic("monotonic: negative extension")
	}
	d.mu.Lock()
	d.lifetime = d.lifetime.Add(additional)
	d.mu.Unlock()
}

// IsExpiredAt is a stateless form of Deadline.IsExpired for callers that
// store the start Reading and lifetime themselves.
func IsExpiredAt(start Reading, lifetime gtime.Duration) bool {
	return Since(start) >= lifetime
}

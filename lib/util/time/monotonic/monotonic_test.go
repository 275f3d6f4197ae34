package monotonic

import (
	"sync"
	"testing"

	"github.com/go-i2p/go-gtime/lib/gtime"
)

// =============================================================================
// Reading Tests
// =============================================================================

// TestNowReading_NonDecreasing verifies consecutive readings never go backwards.
func TestNowReading_NonDecreasing(t *testing.T) {
	prev := NowReading()
	for i := 0; i < 1000; i++ {
		cur := NowReading()
		if cur < prev {
			t.Fatalf("monotonic reading went backwards: %d -> %d", prev, cur)
		}
		prev = cur
	}
}

// TestReading_TracksSleep verifies readings advance across a sleep.
func TestReading_TracksSleep(t *testing.T) {
	start := NowReading()
	gtime.Sleep(20 * gtime.Millisecond)
	if elapsed := Since(start); elapsed < 20*gtime.Millisecond {
		t.Errorf("expected at least 20ms elapsed, got %s", elapsed)
	}
}

// TestReading_Arithmetic verifies Add and Sub are inverses.
func TestReading_Arithmetic(t *testing.T) {
	r := Reading(1000)
	if got := r.Add(5 * gtime.Second).Sub(r); got != 5*gtime.Second {
		t.Errorf("expected 5s, got %s", got)
	}
}

// =============================================================================
// Clock Tests
// =============================================================================

// TestNewClock verifies a new Clock has zero offset.
func TestNewClock(t *testing.T) {
	c := NewClock()
	if c.Offset() != 0 {
		t.Errorf("expected zero offset, got %s", c.Offset())
	}
}

// TestClock_Now_WithoutOffset verifies Now() tracks the host clock when the
// offset is zero.
func TestClock_Now_WithoutOffset(t *testing.T) {
	c := NewClock()
	before := gtime.Now()
	now := c.Now()
	after := gtime.Now()

	if now.Before(before.Add(-10*gtime.Millisecond)) || now.After(after.Add(10*gtime.Millisecond)) {
		t.Errorf("Clock.Now() = %v, expected between %v and %v", now, before, after)
	}
}

// TestClock_Now_WithOffset verifies Now() applies the configured offset.
func TestClock_Now_WithOffset(t *testing.T) {
	base := gtime.Unix(1000, 0)
	c := NewClockFrom(gtime.ClockFunc(func() gtime.Instant { return base }))
	c.SetOffset(5 * gtime.Second)

	if got := c.Now(); !got.Equal(gtime.Unix(1005, 0)) {
		t.Errorf("Clock.Now() with offset = %d, expected 1005", got.Unix())
	}
}

// TestClock_SetOffset verifies offset can be updated.
func TestClock_SetOffset(t *testing.T) {
	c := NewClock()

	c.SetOffset(1 * gtime.Second)
	if c.Offset() != 1*gtime.Second {
		t.Errorf("expected 1s offset, got %s", c.Offset())
	}

	c.SetOffset(-500 * gtime.Millisecond)
	if c.Offset() != -500*gtime.Millisecond {
		t.Errorf("expected -500ms offset, got %s", c.Offset())
	}
	if c.String() != "offset(-0.5s)" {
		t.Errorf("unexpected String(): %s", c.String())
	}
}

// TestClock_AsDefaultClock verifies Clock satisfies gtime.Clock.
func TestClock_AsDefaultClock(t *testing.T) {
	c := NewClockFrom(gtime.ClockFunc(func() gtime.Instant { return gtime.Unix(50, 0) }))
	c.SetOffset(-gtime.Second)
	prev := gtime.SetDefaultClock(c)
	defer gtime.SetDefaultClock(prev)

	if got := gtime.Now(); got.Unix() != 49 {
		t.Errorf("expected gtime.Now() to use the offset clock, got %d", got.Unix())
	}
}

// TestClock_ConcurrentAccess verifies offset updates race-free with reads.
// Run with: go test -race ./lib/util/time/monotonic/
func TestClock_ConcurrentAccess(t *testing.T) {
	c := NewClock()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.SetOffset(gtime.Duration(i) * gtime.Millisecond)
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Now()
		}()
	}
	wg.Wait()
}

// =============================================================================
// Deadline Tests
// =============================================================================

// TestNewDeadline_NotExpiredImmediately verifies a new deadline is not expired.
func TestNewDeadline_NotExpiredImmediately(t *testing.T) {
	d := NewDeadline(1 * gtime.Hour)
	if d.IsExpired() {
		t.Error("expected new deadline to not be expired")
	}
}

// TestNewDeadline_ZeroLifetime verifies a zero-lifetime deadline expires immediately.
func TestNewDeadline_ZeroLifetime(t *testing.T) {
	d := NewDeadline(0)
	if !d.IsExpired() {
		t.Error("expected zero-lifetime deadline to be expired immediately")
	}
}

// TestNewDeadline_NegativeLifetimePanics verifies negative lifetime causes a panic.
func TestNewDeadline_NegativeLifetimePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative lifetime")
		}
	}()
	NewDeadline(-1 * gtime.Second)
}

// TestNewDeadlineAt verifies creation from an earlier reading.
func TestNewDeadlineAt(t *testing.T) {
	start := NowReading().Add(-5 * gtime.Minute)
	d := NewDeadlineAt(start, 10*gtime.Minute)

	if d.IsExpired() {
		t.Error("expected deadline starting 5min ago with 10min lifetime to not be expired")
	}
	ago := gtime.Since(d.CreatedAt())
	if ago < 4*gtime.Minute+50*gtime.Second || ago > 5*gtime.Minute+10*gtime.Second {
		t.Errorf("expected CreatedAt ~5min ago, got %s ago", ago)
	}
}

// TestNewDeadlineAt_AlreadyExpired verifies detection of already-expired starts.
func TestNewDeadlineAt_AlreadyExpired(t *testing.T) {
	d := NewDeadlineAt(NowReading().Add(-15*gtime.Minute), 10*gtime.Minute)
	if !d.IsExpired() {
		t.Error("expected deadline starting 15min ago with 10min lifetime to be expired")
	}
}

// TestDeadline_Remaining verifies Remaining before and after expiry.
func TestDeadline_Remaining(t *testing.T) {
	d := NewDeadline(1 * gtime.Hour)
	if r := d.Remaining(); r < 59*gtime.Minute || r > 1*gtime.Hour {
		t.Errorf("expected remaining ~1h, got %s", r)
	}

	expired := NewDeadlineAt(NowReading().Add(-10*gtime.Minute), 5*gtime.Minute)
	if expired.Remaining() != 0 {
		t.Errorf("expected zero remaining for expired deadline, got %s", expired.Remaining())
	}
}

// TestDeadline_Elapsed verifies Elapsed tracks time since the start reading.
func TestDeadline_Elapsed(t *testing.T) {
	d := NewDeadlineAt(NowReading().Add(-5*gtime.Minute), 10*gtime.Minute)
	elapsed := d.Elapsed()
	if elapsed < 5*gtime.Minute || elapsed > 5*gtime.Minute+10*gtime.Second {
		t.Errorf("expected elapsed ~5min, got %s", elapsed)
	}
}

// TestDeadline_ExpiresAt verifies the display-only wall time of expiry.
func TestDeadline_ExpiresAt(t *testing.T) {
	d := NewDeadline(42 * gtime.Second)
	if got := d.ExpiresAt().Sub(d.CreatedAt()); got != 42*gtime.Second {
		t.Errorf("expected ExpiresAt - CreatedAt = 42s, got %s", got)
	}
}

// TestDeadline_Extend verifies lifetime extension works.
func TestDeadline_Extend(t *testing.T) {
	d := NewDeadline(5 * gtime.Minute)
	d.Extend(3 * gtime.Minute)
	if d.Lifetime() != 8*gtime.Minute {
		t.Errorf("extended lifetime should be 8min, got %s", d.Lifetime())
	}
	d.Extend(0)
	if d.Lifetime() != 8*gtime.Minute {
		t.Errorf("lifetime should remain 8min after zero extension, got %s", d.Lifetime())
	}
}

// TestDeadline_Extend_RevivesExpired verifies extension can un-expire a deadline.
func TestDeadline_Extend_RevivesExpired(t *testing.T) {
	d := NewDeadlineAt(NowReading().Add(-2*gtime.Minute), 1*gtime.Minute)
	if !d.IsExpired() {
		t.Fatal("expected deadline to be expired before extension")
	}
	d.Extend(5 * gtime.Minute)
	if d.IsExpired() {
		t.Error("expected extended deadline to no longer be expired")
	}
}

// TestDeadline_Extend_NegativePanics verifies negative extension panics.
func TestDeadline_Extend_NegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative extension")
		}
	}()
	NewDeadline(gtime.Minute).Extend(-gtime.Second)
}

// TestDeadline_ConcurrentExtend verifies concurrent extensions are all applied.
func TestDeadline_ConcurrentExtend(t *testing.T) {
	d := NewDeadline(0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Extend(gtime.Second)
			_ = d.IsExpired()
		}()
	}
	wg.Wait()
	if d.Lifetime() != 100*gtime.Second {
		t.Errorf("expected 100s lifetime, got %s", d.Lifetime())
	}
}

// TestIsExpiredAt verifies the stateless helper.
func TestIsExpiredAt(t *testing.T) {
	if IsExpiredAt(NowReading(), gtime.Hour) {
		t.Error("expected fresh start to not be expired")
	}
	if !IsExpiredAt(NowReading().Add(-2*gtime.Hour), gtime.Hour) {
		t.Error("expected start 2h ago with 1h lifetime to be expired")
	}
}

// =============================================================================
// Stopwatch Tests
// =============================================================================

// TestStopwatch_Elapsed verifies the stopwatch tracks time.
func TestStopwatch_Elapsed(t *testing.T) {
	sw := StartStopwatch()
	gtime.Sleep(10 * gtime.Millisecond)
	if e := sw.Elapsed(); e < 10*gtime.Millisecond {
		t.Errorf("expected at least 10ms, got %s", e)
	}
}

// TestStopwatch_Lap verifies laps partition the elapsed time.
func TestStopwatch_Lap(t *testing.T) {
	sw := StartStopwatch()
	gtime.Sleep(5 * gtime.Millisecond)
	first := sw.Lap()
	gtime.Sleep(5 * gtime.Millisecond)
	second := sw.Lap()
	total := sw.Elapsed()

	if first < 5*gtime.Millisecond || second < 5*gtime.Millisecond {
		t.Errorf("expected laps of at least 5ms, got %s and %s", first, second)
	}
	if first+second > total {
		t.Errorf("laps %s + %s exceed total %s", first, second, total)
	}
}

// TestStopwatch_Reset verifies Reset restarts the measurement.
func TestStopwatch_Reset(t *testing.T) {
	sw := StartStopwatch()
	gtime.Sleep(10 * gtime.Millisecond)
	before := sw.Reset()
	if before < 10*gtime.Millisecond {
		t.Errorf("expected reset to report at least 10ms, got %s", before)
	}
	if after := sw.Elapsed(); after >= before {
		t.Errorf("expected elapsed after reset (%s) to be below %s", after, before)
	}
}

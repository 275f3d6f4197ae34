package gtime

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Sleep blocks the calling goroutine for at least d. Zero and negative
// durations return immediately. Sleep cannot be cancelled; use SleepContext
// when that matters.
func Sleep(d Duration) {
	if d <= 0 {
		return
	}
	sleep(d)
}

// SleepContext blocks for d or until ctx is done, whichever comes first.
// It returns nil when the full duration elapsed.
func SleepContext(ctx context.Context, d Duration) error {
	if err := ctx.Err(); err != nil {
		return oops.Wrapf(err, "sleep of %s not started", d)
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d.Std())
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return oops.Wrapf(ctx.Err(), "sleep of %s interrupted", d)
	}
}

package sntp

import (
	"context"
	"sync"
	"time"

	"github.com/go-i2p/crypto/rand"
	"github.com/go-i2p/go-gtime/lib/config"
	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/go-i2p/go-gtime/lib/util/time/monotonic"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

var log = logger.GetGoI2PLogger()

const (
	maxConsecutiveFails   = 10
	failureRetryInterval  = 30 * gtime.Second
	lostSyncRetryInterval = 30 * gtime.Minute
	maxWaitInitialization = 45 * gtime.Second
	wellSyncedThreshold   = 500 * gtime.Millisecond
	// minTimestampInterval limits how often TimestampNow may force a query.
	minTimestampInterval = gtime.Minute
)

// Timestamper keeps a monotonic.Clock corrected by periodic NTP queries.
// It implements gtime.Clock and io.Closer.
type Timestamper struct {
	servers           []string
	listeners         []UpdateListener
	queryFrequency    gtime.Duration
	timeout           gtime.Duration
	maxVariance       gtime.Duration
	concurringServers int
	consecutiveFails  int
	initialized       bool
	wellSynced        bool
	isRunning         bool
	stopped           bool
	mutex             sync.Mutex
	stopChan          chan struct{}
	stopOnce          sync.Once
	waitGroup         sync.WaitGroup
	ntpClient         NTPClient
	clock             *monotonic.Clock
	limiter           *rate.Limiter
	metrics           *metrics
	// initChan is closed exactly once when the first query cycle completes.
	initChan chan struct{}
	initOnce sync.Once
}

// NewTimestamper creates a Timestamper over the host clock. The configuration
// is validated with config.ValidateNTP.
func NewTimestamper(client NTPClient, cfg config.NTPConfig) (*Timestamper, error) {
	return NewTimestamperWithClock(client, cfg, gtime.SystemClock{})
}

// NewTimestamperWithClock creates a Timestamper whose corrections apply to base.
func NewTimestamperWithClock(client NTPClient, cfg config.NTPConfig, base gtime.Clock) (*Timestamper, error) {
	if client == nil {
		return nil, oops.Errorf("NTP client must not be nil")
	}
	if err := config.ValidateNTP(cfg); err != nil {
		return nil, err
	}
	servers := make([]string, len(cfg.Servers))
	copy(servers, cfg.Servers)

	t := &Timestamper{
		servers:           servers,
		listeners:         []UpdateListener{},
		queryFrequency:    cfg.QueryFrequency,
		timeout:           cfg.Timeout,
		maxVariance:       cfg.MaxVariance,
		concurringServers: cfg.ConcurringServers,
		stopChan:          make(chan struct{}),
		ntpClient:         client,
		clock:             monotonic.NewClockFrom(base),
		limiter:           rate.NewLimiter(rate.Every(minTimestampInterval.Std()), 1),
		metrics:           newMetrics(),
		initChan:          make(chan struct{}),
	}
	log.WithFields(logger.Fields{
		"at":         "NewTimestamper",
		"servers":    servers,
		"frequency":  cfg.QueryFrequency.String(),
		"concurring": cfg.ConcurringServers,
	}).Debug("created timestamper")
	return t, nil
}

// Start launches the background query loop. It is a no-op when already
// running or after Stop.
func (t *Timestamper) Start() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.isRunning || t.stopped {
		return
	}
	t.isRunning = true
	t.waitGroup.Add(1)
	go t.run()
}

// Stop ends the background loop and waits for in-flight queries.
func (t *Timestamper) Stop() {
	t.mutex.Lock()
	t.isRunning = false
	t.stopped = true
	t.mutex.Unlock()
	t.stopOnce.Do(func() {
		close(t.stopChan)
	})
	t.waitGroup.Wait()
}

// Close stops the timestamper.
func (t *Timestamper) Close() error {
	t.Stop()
	return nil
}

// AddListener registers listener for every applied correction.
func (t *Timestamper) AddListener(listener UpdateListener) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.listeners = append(t.listeners, listener)
}

// RemoveListener unregisters the first listener matching listener, by
// ListenerID when implemented and by equality otherwise.
func (t *Timestamper) RemoveListener(listener UpdateListener) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for i, l := range t.listeners {
		if sameListener(l, listener) {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			break
		}
	}
}

// WaitForInitialization blocks until the first query cycle completes, ctx is
// done, or 45 seconds pass.
func (t *Timestamper) WaitForInitialization(ctx context.Context) error {
	timer := time.NewTimer(maxWaitInitialization.Std())
	defer timer.Stop()
	select {
	case <-t.initChan:
		return nil
	case <-ctx.Done():
		return oops.Wrapf(ctx.Err(), "waiting for NTP initialization")
	case <-timer.C:
		return oops.Errorf("NTP initialization did not complete within %s", maxWaitInitialization)
	}
}

// TimestampNow schedules an immediate query cycle. Requests are ignored until
// the first cycle completes, while stopped, or when made more often than once
// a minute. It reports whether a cycle was scheduled.
func (t *Timestamper) TimestampNow() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.initialized || !t.isRunning {
		return false
	}
	if !t.limiter.Allow() {
		log.WithField("at", "TimestampNow").Debug("timestamp request throttled")
		return false
	}
	t.waitGroup.Add(1)
	go func() {
		defer t.waitGroup.Done()
		t.performTimeQuery()
	}()
	return true
}

// SyncOnce runs a single query cycle in the caller's goroutine.
func (t *Timestamper) SyncOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return oops.Wrapf(err, "NTP sync not started")
	}
	if t.queryTime(ctx) {
		t.recordSuccess()
		t.markInitialized()
		return nil
	}
	fails := t.recordFailure()
	t.markInitialized()
	if err := ctx.Err(); err != nil {
		return oops.Wrapf(err, "NTP sync interrupted")
	}
	return oops.Errorf("NTP sync failed (%d consecutive failures)", fails)
}

func (t *Timestamper) run() {
	defer t.waitGroup.Done()
	for {
		t.mutex.Lock()
		running := t.isRunning
		t.mutex.Unlock()
		if !running {
			return
		}
		lastFailed := t.performTimeQuery()
		if !t.waitWithCancellation(t.calculateSleepDuration(lastFailed)) {
			return
		}
	}
}

// performTimeQuery runs one cycle and reports whether it failed.
func (t *Timestamper) performTimeQuery() bool {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-t.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	failed := !t.queryTime(ctx)
	if failed {
		t.recordFailure()
	} else {
		t.recordSuccess()
	}
	t.markInitialized()
	return failed
}

func (t *Timestamper) recordSuccess() {
	t.mutex.Lock()
	t.consecutiveFails = 0
	t.mutex.Unlock()
	t.metrics.consecutiveFails.Set(0)
}

func (t *Timestamper) recordFailure() int {
	t.mutex.Lock()
	t.consecutiveFails++
	fails := t.consecutiveFails
	listeners := t.snapshotListeners()
	t.mutex.Unlock()

	t.metrics.consecutiveFails.Set(float64(fails))
	log.WithFields(logger.Fields{
		"at":                "recordFailure",
		"consecutive_fails": fails,
	}).Warn("NTP query cycle failed")

	for _, l := range listeners {
		if ext, ok := l.(ExtendedUpdateListener); ok {
			ext.OnSyncFailure(fails)
			if fails == maxConsecutiveFails {
				ext.OnSyncLost()
			}
		}
	}
	return fails
}

func (t *Timestamper) markInitialized() {
	t.initOnce.Do(func() {
		t.mutex.Lock()
		t.initialized = true
		listeners := t.snapshotListeners()
		t.mutex.Unlock()
		close(t.initChan)

		log.WithField("at", "markInitialized").Debug("timestamper initialized")
		for _, l := range listeners {
			if ext, ok := l.(ExtendedUpdateListener); ok {
				ext.OnInitialized()
			}
		}
	})
}

// calculateSleepDuration determines the appropriate sleep duration based on
// the last cycle's result, consecutive failures and synchronization status.
func (t *Timestamper) calculateSleepDuration(lastFailed bool) gtime.Duration {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if lastFailed {
		if t.consecutiveFails >= maxConsecutiveFails {
			return lostSyncRetryInterval
		}
		return failureRetryInterval
	}

	sleepTime := t.queryFrequency
	if half := int64(t.queryFrequency / 2); half > 0 {
		sleepTime += gtime.NewDuration(rand.Int63n(half))
	}
	if t.wellSynced {
		sleepTime *= 3
	}
	return sleepTime
}

// waitWithCancellation waits for the specified duration or until Stop is called.
// Returns true if the wait completed normally, false if cancelled.
func (t *Timestamper) waitWithCancellation(d gtime.Duration) bool {
	timer := time.NewTimer(d.Std())
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-t.stopChan:
		return false
	}
}

// stampTime applies offset to the clock and notifies listeners.
func (t *Timestamper) stampTime(offset gtime.Duration, stratum uint8) {
	t.clock.SetOffset(offset)
	t.metrics.offset.Set(offset.Seconds())

	t.mutex.Lock()
	listeners := t.snapshotListeners()
	t.mutex.Unlock()

	now := t.clock.Now()
	for _, l := range listeners {
		l.SetNow(now, stratum)
	}
}

// snapshotListeners copies the listener list. Callers hold t.mutex.
func (t *Timestamper) snapshotListeners() []UpdateListener {
	out := make([]UpdateListener, len(t.listeners))
	copy(out, t.listeners)
	return out
}

// Now returns the host time corrected by the latest NTP offset. It does not
// trigger a query.
func (t *Timestamper) Now() gtime.Instant {
	return t.clock.Now()
}

// Offset returns the correction currently applied to the host clock.
func (t *Timestamper) Offset() gtime.Duration {
	return t.clock.Offset()
}

// IsInitialized reports whether a query cycle has completed.
func (t *Timestamper) IsInitialized() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.initialized
}

// IsWellSynced reports whether the last cycle found the host clock within
// 500ms of the servers.
func (t *Timestamper) IsWellSynced() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.wellSynced
}

// ConsecutiveFailures returns the number of query cycles failed in a row.
func (t *Timestamper) ConsecutiveFailures() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.consecutiveFails
}

// Servers returns a copy of the configured server list.
func (t *Timestamper) Servers() []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	servers := make([]string, len(t.servers))
	copy(servers, t.servers)
	return servers
}

package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// allRefresher is the slice of Orchestrator the ticker needs.
type allRefresher interface {
	RefreshAll(ctx context.Context) error
}

// Ticker triggers a full refresh run on a fixed interval. Failures are
// logged and do not stop the loop; the next tick tries again.
type Ticker struct {
	refresher allRefresher
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	logger    *zap.SugaredLogger

	mu         sync.Mutex
	lastRunAt  time.Time
	runsSoFar  int64
	lastRunErr error
}

// NewTicker creates a refresh ticker. interval must be positive.
func NewTicker(refresher allRefresher, interval time.Duration, logger *zap.SugaredLogger) *Ticker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Ticker{
		refresher: refresher,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
}

// Start begins the ticker loop
func (t *Ticker) Start() {
	t.wg.Add(1)
	go t.run()
	t.logger.Infow("Refresh ticker started", "interval", t.interval)
}

// Stop stops the ticker and waits for the loop to exit. A run already in
// flight sees its context cancelled and fails fast.
func (t *Ticker) Stop() {
	t.cancel()
	t.wg.Wait()
	t.logger.Infow("Refresh ticker stopped")
}

func (t *Ticker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case tickTime := <-ticker.C:
			err := t.refresher.RefreshAll(t.ctx)

			t.mu.Lock()
			t.lastRunAt = tickTime
			t.runsSoFar++
			t.lastRunErr = err
			t.mu.Unlock()

			if err != nil {
				t.logger.Warnw("Scheduled refresh failed", "error", err)
			}
		}
	}
}

// LastRun reports the most recent tick's completion state.
func (t *Ticker) LastRun() (at time.Time, runs int64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRunAt, t.runsSoFar, t.lastRunErr
}

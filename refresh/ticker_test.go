package refresh

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zimmerman-dev/gfdata/errors"
)

type countingRefresher struct {
	runs atomic.Int64
	err  error
}

func (c *countingRefresher) RefreshAll(ctx context.Context) error {
	c.runs.Add(1)
	return c.err
}

func TestTickerRunsPeriodically(t *testing.T) {
	refresher := &countingRefresher{}
	ticker := NewTicker(refresher, 10*time.Millisecond, zap.NewNop().Sugar())

	ticker.Start()
	require.Eventually(t, func() bool {
		return refresher.runs.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	ticker.Stop()

	after := refresher.runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, refresher.runs.Load(), "no runs after Stop")
}

func TestTickerSurvivesFailures(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("remote unavailable")}
	ticker := NewTicker(refresher, 10*time.Millisecond, zap.NewNop().Sugar())

	ticker.Start()
	require.Eventually(t, func() bool {
		return refresher.runs.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	ticker.Stop()

	_, runs, err := ticker.LastRun()
	assert.GreaterOrEqual(t, runs, int64(3))
	assert.Error(t, err)
}

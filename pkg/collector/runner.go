package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 30 * time.Second

// Runner drives a Poller on a fixed interval. Concurrent triggers (a timer
// tick racing a manual CollectNow) collapse into a single in-flight poll, so
// overlapping polls never hit the inspector twice.
type Runner struct {
	poller   *Poller
	interval time.Duration
	log      *zap.Logger
	group    singleflight.Group
}

// NewRunner creates a Runner polling at the given interval. Non-positive
// intervals fall back to DefaultInterval.
func NewRunner(poller *Poller, interval time.Duration, log *zap.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		poller:   poller,
		interval: interval,
		log:      log.With(zap.String("module", "collector_runner")),
	}
}

// Run polls immediately and then once per interval until ctx is canceled.
// A failed poll is logged and the loop waits for the next tick; partial
// gauges from the failed tick are corrected on the next success.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("collector runner stopping", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			r.collect(ctx)
		}
	}
}

// CollectNow triggers one poll outside the timer, sharing any poll already
// in flight.
func (r *Runner) CollectNow(ctx context.Context) error {
	_, err, _ := r.group.Do("collect", func() (interface{}, error) {
		return nil, r.poller.Collect(ctx)
	})
	return err
}

func (r *Runner) collect(ctx context.Context) {
	start := time.Now()
	if err := r.CollectNow(ctx); err != nil {
		r.log.Error("poll failed", zap.Error(err))
		return
	}
	r.log.Debug("poll completed", zap.Duration("took", time.Since(start)))
}

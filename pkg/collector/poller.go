package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nmxmxh/queuewatch/pkg/metrics"
)

// Poller fetches snapshots from an Inspector and pushes every derived value
// to the sink. It holds no state between polls.
type Poller struct {
	insp Inspector
	sink metrics.Sink
	log  *zap.Logger
}

// NewPoller creates a Poller. A nil logger is replaced with a no-op logger.
func NewPoller(insp Inspector, sink metrics.Sink, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		insp: insp,
		sink: sink,
		log:  log.With(zap.String("module", "collector")),
	}
}

// Collect runs one synchronous poll: queue gauges, global job-set gauges,
// then the fleet capacity gauges. A failed sub-query aborts the poll and
// propagates to the caller; gauges already written this tick keep their
// values and are corrected on the next successful poll. Collect never
// retries internally — retry policy belongs to whatever schedules it.
func (p *Poller) Collect(ctx context.Context) error {
	queues, err := p.insp.Queues(ctx)
	if err != nil {
		return fmt.Errorf("fetch queues: %w", err)
	}
	for _, q := range queues {
		labels := metrics.QueueLabels(q.Name)
		p.sink.Set(metrics.JobsWaitingCount, labels, float64(q.Size))
		p.sink.Set(metrics.QueueLatency, labels, q.Latency)
	}

	stats, err := p.insp.Stats(ctx)
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}
	p.sink.Set(metrics.JobsScheduledCount, nil, float64(stats.Scheduled))
	p.sink.Set(metrics.JobsRetryCount, nil, float64(stats.Retry))
	p.sink.Set(metrics.JobsDeadCount, nil, float64(stats.Dead))

	procs, err := p.insp.Processes(ctx)
	if err != nil {
		return fmt.Errorf("fetch processes: %w", err)
	}
	agg := Aggregate(procs)
	p.sink.Set(metrics.ActiveProcesses, nil, float64(len(procs)))
	p.sink.Set(metrics.ActiveWorkersCount, nil, float64(agg.BusyProcesses))
	p.sink.Set(metrics.Concurrency, nil, float64(agg.Concurrency))
	p.sink.Set(metrics.BusyWorkers, nil, float64(agg.Busy))
	p.sink.Set(metrics.AvailableWorkers, nil, float64(agg.Available))
	if sat, ok := agg.Saturation(); ok {
		p.sink.Set(metrics.Saturation, nil, sat)
	} else {
		// No registered processes: saturation is undefined, skip the write
		// rather than publish NaN or a misleading 0.
		p.log.Debug("no processes registered, skipping saturation")
	}

	return nil
}

// Package collector polls a job runtime's introspection surface and publishes
// queue depth, latency, and worker saturation gauges.
package collector

import "context"

// QueueSnapshot is one queue's state at poll time.
type QueueSnapshot struct {
	// Name is the queue name.
	Name string
	// Size is the number of jobs waiting.
	Size int64
	// Latency is the age in seconds of the oldest waiting job. It is 0 when
	// the queue is empty; latency is undefined with no job to measure, and
	// writing 0 every tick keeps dashboards from reading stale values.
	Latency float64
}

// ProcessSnapshot is one worker process's state at poll time.
type ProcessSnapshot struct {
	// Concurrency is the configured maximum number of parallel jobs.
	Concurrency int
	// Busy is the number of jobs executing right now.
	Busy int
	// Quiet reports whether the process is draining and accepting no new work.
	Quiet bool
}

// RuntimeStats are the runtime's global job-set sizes.
type RuntimeStats struct {
	Scheduled int64
	Retry     int64
	Dead      int64
}

// Inspector reads the observed runtime's introspection surface. Calls within
// one poll are independent reads with no cross-call transaction; slightly
// racy results across calls are acceptable. Implementations must never write
// to the runtime.
type Inspector interface {
	Queues(ctx context.Context) ([]QueueSnapshot, error)
	Processes(ctx context.Context) ([]ProcessSnapshot, error)
	Stats(ctx context.Context) (RuntimeStats, error)
}

// Package middleware provides the client- and server-side instrumentation
// hooks a job runtime invokes around job submission and execution.
package middleware

import (
	"context"
	"time"

	"github.com/nmxmxh/queuewatch/pkg/metrics"
)

// Job is the descriptor triple passed to both hooks.
type Job struct {
	// Payload is the worker identifier: a plain string, a typed job value,
	// or a metrics.NamedJob adapter wrapping one.
	Payload interface{}
	// Queue is the queue the job was submitted to.
	Queue string
	// EnqueuedAt is the submission timestamp carried in the job's metadata.
	EnqueuedAt time.Time
}

// WorkerName returns the worker label for this job.
func (j Job) WorkerName() string {
	return metrics.WorkerName(j.Payload)
}

// Handler executes one job. The runtime's own job body sits at the bottom of
// the handler chain.
type Handler func(ctx context.Context, job Job) error

// Hooks records submission and execution metrics. Hooks share no mutable
// state and are safe to invoke from concurrently executing jobs.
type Hooks struct {
	sink metrics.Sink
	now  func() time.Time
}

// NewHooks creates Hooks writing to sink.
func NewHooks(sink metrics.Sink) *Hooks {
	return &Hooks{sink: sink, now: time.Now}
}

// JobEnqueued records one job submission. It must be called exactly once per
// submission attempt. It only increments a counter; the job itself is never
// touched or delayed.
func (h *Hooks) JobEnqueued(job Job) {
	h.sink.Increment(metrics.JobsEnqueuedTotal, metrics.JobLabels(job.Queue, job.WorkerName()))
}

// WrapJob wraps a handler with execution instrumentation. On entry it records
// queue latency (enqueue to execution start) and counts the execution; on
// return it records the wall-clock runtime and the outcome. The wrapped
// handler's error is returned unchanged, and a panic in the handler is
// recorded as a failure and re-panicked with the original value — the hook is
// purely observational.
func (h *Hooks) WrapJob(next Handler) Handler {
	return func(ctx context.Context, job Job) error {
		labels := metrics.JobLabels(job.Queue, job.WorkerName())

		if !job.EnqueuedAt.IsZero() {
			wait := h.now().Sub(job.EnqueuedAt).Seconds()
			if wait < 0 {
				wait = 0
			}
			h.sink.Observe(metrics.JobLatency, labels, wait)
		}
		h.sink.Increment(metrics.JobsExecutedTotal, labels)

		start := h.now()
		defer func() {
			if r := recover(); r != nil {
				h.sink.Increment(metrics.JobsFailedTotal, labels)
				h.sink.Observe(metrics.JobRuntime, labels, h.now().Sub(start).Seconds())
				panic(r)
			}
		}()

		err := next(ctx, job)
		h.sink.Observe(metrics.JobRuntime, labels, h.now().Sub(start).Seconds())
		if err != nil {
			h.sink.Increment(metrics.JobsFailedTotal, labels)
			return err
		}
		h.sink.Increment(metrics.JobsSuccessTotal, labels)
		return nil
	}
}

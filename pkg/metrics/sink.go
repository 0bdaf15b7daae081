// Package metrics declares the metric export contract for job-queue
// instrumentation and provides a Prometheus-backed sink implementing it.
package metrics

// Sink accepts metric writes. Implementations must be safe for concurrent
// use; hooks call into the sink from every executing job.
type Sink interface {
	// Increment adds 1 to a counter.
	Increment(name string, labels map[string]string)
	// Set writes the current value of a gauge.
	Set(name string, labels map[string]string, value float64)
	// Observe records one sample into a histogram.
	Observe(name string, labels map[string]string, value float64)
}

// JobLabels builds the {queue, worker} label set used by all per-job metrics.
func JobLabels(queue, worker string) map[string]string {
	return map[string]string{LabelQueue: queue, LabelWorker: worker}
}

// QueueLabels builds the {queue} label set used by queue-level gauges.
func QueueLabels(queue string) map[string]string {
	return map[string]string{LabelQueue: queue}
}

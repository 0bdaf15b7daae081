package metrics

// Metric names exported by this library. Dashboards and alerting rules depend
// on these exact names, so they are part of the public contract and must not
// be renamed.
const (
	JobsEnqueuedTotal = "jobs_enqueued_total"
	JobsExecutedTotal = "jobs_executed_total"
	JobsSuccessTotal  = "jobs_success_total"
	JobsFailedTotal   = "jobs_failed_total"

	JobsWaitingCount = "jobs_waiting_count"
	QueueLatency     = "queue_latency"

	ActiveWorkersCount = "active_workers_count"
	JobsScheduledCount = "jobs_scheduled_count"
	JobsRetryCount     = "jobs_retry_count"
	JobsDeadCount      = "jobs_dead_count"
	ActiveProcesses    = "active_processes"
	Concurrency        = "concurrency"
	BusyWorkers        = "busy_workers"
	AvailableWorkers   = "available_workers"
	Saturation         = "saturation"

	JobLatency = "job_latency"
	JobRuntime = "job_runtime"
)

// Label keys used by the metrics above.
const (
	LabelQueue  = "queue"
	LabelWorker = "worker"
)

// Kind identifies the metric type of a Definition.
type Kind string

const (
	Counter   Kind = "counter"
	Gauge     Kind = "gauge"
	Histogram Kind = "histogram"
)

// Definition describes one metric in the export contract. Definitions are
// registered once at sink construction and are immutable afterward.
type Definition struct {
	Name    string
	Kind    Kind
	Help    string
	Labels  []string
	Buckets []float64 // histograms only
}

// DurationBuckets are the histogram boundaries, in seconds, for job latency
// and runtime. They span 5ms to 6h to cover both inline jobs and long batch
// work.
var DurationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
	10, 30, 60, 120, 300, 1800, 3600, 21600,
}

var jobLabels = []string{LabelQueue, LabelWorker}

// Definitions returns the full set of metrics this library exports.
func Definitions() []Definition {
	return []Definition{
		{Name: JobsEnqueuedTotal, Kind: Counter, Help: "Total jobs pushed to a queue.", Labels: jobLabels},
		{Name: JobsExecutedTotal, Kind: Counter, Help: "Total job executions started.", Labels: jobLabels},
		{Name: JobsSuccessTotal, Kind: Counter, Help: "Total job executions that completed successfully.", Labels: jobLabels},
		{Name: JobsFailedTotal, Kind: Counter, Help: "Total job executions that failed.", Labels: jobLabels},

		{Name: JobsWaitingCount, Kind: Gauge, Help: "Jobs currently waiting in a queue.", Labels: []string{LabelQueue}},
		{Name: QueueLatency, Kind: Gauge, Help: "Age in seconds of the oldest job waiting in a queue; 0 when the queue is empty.", Labels: []string{LabelQueue}},

		{Name: ActiveWorkersCount, Kind: Gauge, Help: "Processes currently executing at least one job."},
		{Name: JobsScheduledCount, Kind: Gauge, Help: "Jobs in the scheduled set."},
		{Name: JobsRetryCount, Kind: Gauge, Help: "Jobs in the retry set."},
		{Name: JobsDeadCount, Kind: Gauge, Help: "Jobs in the dead set."},
		{Name: ActiveProcesses, Kind: Gauge, Help: "Registered worker processes."},
		{Name: Concurrency, Kind: Gauge, Help: "Total configured concurrency across all processes."},
		{Name: BusyWorkers, Kind: Gauge, Help: "Jobs executing right now across all processes."},
		{Name: AvailableWorkers, Kind: Gauge, Help: "Free job slots across all non-quiet processes."},
		{Name: Saturation, Kind: Gauge, Help: "Fraction of total capacity unavailable for new work; skipped when no processes are registered."},

		{Name: JobLatency, Kind: Histogram, Help: "Seconds between enqueue and execution start.", Labels: jobLabels, Buckets: DurationBuckets},
		{Name: JobRuntime, Kind: Histogram, Help: "Seconds spent executing a job, success or failure.", Labels: jobLabels, Buckets: DurationBuckets},
	}
}

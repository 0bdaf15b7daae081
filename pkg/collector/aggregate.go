package collector

// FleetAggregate holds fleet-wide worker capacity totals derived from a
// single snapshot of all processes. It is recomputed from scratch every poll;
// nothing carries across ticks.
type FleetAggregate struct {
	// Concurrency is the summed configured capacity of all processes.
	Concurrency int64
	// Busy is the summed count of jobs executing right now.
	Busy int64
	// Available is the summed free capacity of non-quiet processes. A quiet
	// process contributes 0 regardless of its idle slots: it accepts no new
	// work, and reporting its capacity as free would show autoscalers idle
	// capacity that does not exist.
	Available int64
	// BusyProcesses is the number of distinct processes with at least one
	// executing job.
	BusyProcesses int64
}

// Aggregate folds a set of process snapshots into fleet totals in one pass.
func Aggregate(procs []ProcessSnapshot) FleetAggregate {
	var agg FleetAggregate
	for _, p := range procs {
		agg.Concurrency += int64(p.Concurrency)
		agg.Busy += int64(p.Busy)
		if !p.Quiet {
			agg.Available += int64(p.Concurrency - p.Busy)
		}
		if p.Busy > 0 {
			agg.BusyProcesses++
		}
	}
	return agg
}

// Saturation returns the fraction of total capacity unavailable for new
// work, 1 - Available/Concurrency. With zero registered processes the value
// is undefined (division by zero); ok is false and the caller must skip the
// metric rather than publish NaN.
func (a FleetAggregate) Saturation() (value float64, ok bool) {
	if a.Concurrency == 0 {
		return 0, false
	}
	return 1 - float64(a.Available)/float64(a.Concurrency), true
}

package collector

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nmxmxh/queuewatch/pkg/metrics"
)

type gaugeWrite struct {
	labels map[string]string
	value  float64
}

// spySink records every write so tests can assert on exact metric output.
type spySink struct {
	mu     sync.Mutex
	incs   map[string]int
	gauges map[string][]gaugeWrite
	obs    map[string][]float64
}

func newSpySink() *spySink {
	return &spySink{
		incs:   make(map[string]int),
		gauges: make(map[string][]gaugeWrite),
		obs:    make(map[string][]float64),
	}
}

func (s *spySink) Increment(name string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incs[name]++
}

func (s *spySink) Set(name string, labels map[string]string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gauges[name] = append(s.gauges[name], gaugeWrite{labels: labels, value: value})
}

func (s *spySink) Observe(name string, labels map[string]string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obs[name] = append(s.obs[name], value)
}

// lastGauge returns the most recent write of a gauge, requiring one to exist.
func (s *spySink) lastGauge(t *testing.T, name string) gaugeWrite {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	writes := s.gauges[name]
	require.NotEmpty(t, writes, "no writes for gauge %s", name)
	return writes[len(writes)-1]
}

func (s *spySink) gaugeWritten(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.gauges[name]) > 0
}

type fakeInspector struct {
	queues   []QueueSnapshot
	procs    []ProcessSnapshot
	stats    RuntimeStats
	queueErr error
	procErr  error
	statsErr error
}

func (f *fakeInspector) Queues(context.Context) ([]QueueSnapshot, error) {
	return f.queues, f.queueErr
}

func (f *fakeInspector) Processes(context.Context) ([]ProcessSnapshot, error) {
	return f.procs, f.procErr
}

func (f *fakeInspector) Stats(context.Context) (RuntimeStats, error) {
	return f.stats, f.statsErr
}

func TestCollectPublishesAllGauges(t *testing.T) {
	sink := newSpySink()
	insp := &fakeInspector{
		queues: []QueueSnapshot{
			{Name: "default", Size: 12, Latency: 3.5},
			{Name: "mailers", Size: 0, Latency: 0},
		},
		procs: []ProcessSnapshot{
			{Concurrency: 10, Busy: 3},
			{Concurrency: 5, Busy: 5, Quiet: true},
		},
		stats: RuntimeStats{Scheduled: 7, Retry: 2, Dead: 1},
	}
	p := NewPoller(insp, sink, zaptest.NewLogger(t))

	require.NoError(t, p.Collect(context.Background()))

	def := sink.lastGauge(t, metrics.JobsWaitingCount)
	assert.Equal(t, 12.0, def.value)

	latency := sink.lastGauge(t, metrics.QueueLatency)
	assert.Equal(t, map[string]string{"queue": "mailers"}, latency.labels)
	assert.Zero(t, latency.value, "empty queue reports zero latency")

	assert.Equal(t, 7.0, sink.lastGauge(t, metrics.JobsScheduledCount).value)
	assert.Equal(t, 2.0, sink.lastGauge(t, metrics.JobsRetryCount).value)
	assert.Equal(t, 1.0, sink.lastGauge(t, metrics.JobsDeadCount).value)

	assert.Equal(t, 2.0, sink.lastGauge(t, metrics.ActiveProcesses).value)
	assert.Equal(t, 2.0, sink.lastGauge(t, metrics.ActiveWorkersCount).value)
	assert.Equal(t, 15.0, sink.lastGauge(t, metrics.Concurrency).value)
	assert.Equal(t, 8.0, sink.lastGauge(t, metrics.BusyWorkers).value)
	assert.Equal(t, 7.0, sink.lastGauge(t, metrics.AvailableWorkers).value)
	assert.InDelta(t, 1-7.0/15.0, sink.lastGauge(t, metrics.Saturation).value, 1e-9)
}

func TestCollectSkipsSaturationWithNoProcesses(t *testing.T) {
	sink := newSpySink()
	p := NewPoller(&fakeInspector{}, sink, zaptest.NewLogger(t))

	// Repeated polls must behave identically.
	for i := 0; i < 2; i++ {
		require.NoError(t, p.Collect(context.Background()))
		assert.Zero(t, sink.lastGauge(t, metrics.ActiveProcesses).value)
		assert.Zero(t, sink.lastGauge(t, metrics.Concurrency).value)
		assert.False(t, sink.gaugeWritten(metrics.Saturation), "saturation must be skipped with zero capacity")
	}
}

func TestCollectPropagatesInspectorErrors(t *testing.T) {
	errBoom := errors.New("connection refused")

	t.Run("queue read fails before any write", func(t *testing.T) {
		sink := newSpySink()
		p := NewPoller(&fakeInspector{queueErr: errBoom}, sink, zaptest.NewLogger(t))
		err := p.Collect(context.Background())
		require.ErrorIs(t, err, errBoom)
		assert.False(t, sink.gaugeWritten(metrics.JobsWaitingCount))
	})

	t.Run("process read fails after queue gauges written", func(t *testing.T) {
		sink := newSpySink()
		insp := &fakeInspector{
			queues:  []QueueSnapshot{{Name: "default", Size: 4}},
			procErr: errBoom,
		}
		p := NewPoller(insp, sink, zaptest.NewLogger(t))
		err := p.Collect(context.Background())
		require.ErrorIs(t, err, errBoom)
		// Earlier writes from the failed tick stand at their last values.
		assert.Equal(t, 4.0, sink.lastGauge(t, metrics.JobsWaitingCount).value)
		assert.False(t, sink.gaugeWritten(metrics.Concurrency))
	})

	t.Run("stats read fails", func(t *testing.T) {
		sink := newSpySink()
		p := NewPoller(&fakeInspector{statsErr: errBoom}, sink, zaptest.NewLogger(t))
		require.ErrorIs(t, p.Collect(context.Background()), errBoom)
	})
}

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PrometheusSink implements Sink on top of an explicit prometheus.Registerer.
// All metric vectors are created and registered at construction; writes after
// that only look up existing vectors, so the sink is safe for concurrent use.
type PrometheusSink struct {
	log        *zap.Logger
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusSink registers every metric from Definitions with reg and
// returns a sink writing to them. Registration conflicts (for example two
// sinks sharing one registry) surface as an error rather than a panic.
func NewPrometheusSink(reg prometheus.Registerer, log *zap.Logger) (*PrometheusSink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &PrometheusSink{
		log:        log.With(zap.String("module", "metrics_sink")),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
	for _, def := range Definitions() {
		var c prometheus.Collector
		switch def.Kind {
		case Counter:
			vec := prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: def.Name,
				Help: def.Help,
			}, def.Labels)
			s.counters[def.Name] = vec
			c = vec
		case Gauge:
			vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: def.Name,
				Help: def.Help,
			}, def.Labels)
			s.gauges[def.Name] = vec
			c = vec
		case Histogram:
			vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    def.Name,
				Help:    def.Help,
				Buckets: def.Buckets,
			}, def.Labels)
			s.histograms[def.Name] = vec
			c = vec
		default:
			return nil, fmt.Errorf("unknown metric kind %q for %s", def.Kind, def.Name)
		}
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", def.Name, err)
		}
	}
	return s, nil
}

// Increment adds 1 to the named counter. Writes against an unknown metric or
// a mismatched label set are logged and dropped; instrumentation must never
// take the host down.
func (s *PrometheusSink) Increment(name string, labels map[string]string) {
	vec, ok := s.counters[name]
	if !ok {
		s.log.Warn("increment on unknown counter", zap.String("metric", name))
		return
	}
	m, err := vec.GetMetricWith(labels)
	if err != nil {
		s.log.Warn("bad counter labels", zap.String("metric", name), zap.Error(err))
		return
	}
	m.Inc()
}

// Set writes the named gauge.
func (s *PrometheusSink) Set(name string, labels map[string]string, value float64) {
	vec, ok := s.gauges[name]
	if !ok {
		s.log.Warn("set on unknown gauge", zap.String("metric", name))
		return
	}
	m, err := vec.GetMetricWith(labels)
	if err != nil {
		s.log.Warn("bad gauge labels", zap.String("metric", name), zap.Error(err))
		return
	}
	m.Set(value)
}

// Observe records one sample into the named histogram.
func (s *PrometheusSink) Observe(name string, labels map[string]string, value float64) {
	vec, ok := s.histograms[name]
	if !ok {
		s.log.Warn("observe on unknown histogram", zap.String("metric", name))
		return
	}
	m, err := vec.GetMetricWith(labels)
	if err != nil {
		s.log.Warn("bad histogram labels", zap.String("metric", name), zap.Error(err))
		return
	}
	m.Observe(value)
}

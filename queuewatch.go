// Package queuewatch instruments a Redis-backed job-processing runtime with
// Prometheus metrics: counters and histograms around job submission and
// execution, and polled gauges for queue depth, latency, and fleet
// saturation.
package queuewatch

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nmxmxh/queuewatch/internal/config"
	"github.com/nmxmxh/queuewatch/pkg/collector"
	"github.com/nmxmxh/queuewatch/pkg/logger"
	"github.com/nmxmxh/queuewatch/pkg/metrics"
	"github.com/nmxmxh/queuewatch/pkg/middleware"
	redisq "github.com/nmxmxh/queuewatch/pkg/redis"
)

// Service bundles the instrumentation hooks, the stats poller, and the
// Prometheus registry they write to. The host registers Hooks with its job
// runtime, runs the Runner (or calls Poller.Collect from its own scheduler),
// and exposes Registry however it serves metrics.
type Service struct {
	Hooks    *middleware.Hooks
	Poller   *collector.Poller
	Runner   *collector.Runner
	Registry *prometheus.Registry

	client *redisq.Client
	log    *zap.Logger
}

type options struct {
	log       *zap.Logger
	registry  *prometheus.Registry
	inspector collector.Inspector
}

// Option customizes Service construction.
type Option func(*options)

// WithLogger supplies a logger instead of building one from LOG_LEVEL.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithRegistry supplies the Prometheus registry to register metrics with.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithInspector replaces the Redis-backed inspector, for runtimes reached
// through some other introspection surface.
func WithInspector(insp collector.Inspector) Option {
	return func(o *options) { o.inspector = insp }
}

// New builds a Service from environment configuration. Unless WithInspector
// is given it connects to the runtime's Redis and reads its key schema.
func New(opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := o.log
	if log == nil {
		log, err = logger.New(logger.Config{
			Environment: cfg.AppEnv,
			LogLevel:    cfg.LogLevel,
			ServiceName: "queuewatch",
		})
		if err != nil {
			return nil, err
		}
	}

	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	sink, err := metrics.NewPrometheusSink(reg, log)
	if err != nil {
		return nil, err
	}

	var client *redisq.Client
	insp := o.inspector
	if insp == nil {
		client, err = redisq.NewClient(redisq.Config{
			Host:         cfg.RedisHost,
			Port:         cfg.RedisPort,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
			MaxRetries:   cfg.RedisMaxRetries,
		}, log)
		if err != nil {
			return nil, err
		}
		insp = redisq.NewInspector(client, cfg.Namespace, log)
	}

	poller := collector.NewPoller(insp, sink, log)
	return &Service{
		Hooks:    middleware.NewHooks(sink),
		Poller:   poller,
		Runner:   collector.NewRunner(poller, cfg.PollInterval, log),
		Registry: reg,
		client:   client,
		log:      log,
	}, nil
}

// Run drives the poll loop until ctx is canceled.
func (s *Service) Run(ctx context.Context) {
	s.Runner.Run(ctx)
}

// Close releases the Redis connection, if this Service owns one.
func (s *Service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

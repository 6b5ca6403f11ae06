package memtable

import (
	"log/slog"

	"memtable/resource"
)

type options struct {
	logger            *Logger
	metricsCollector  MetricsCollector
	controller        *resource.Controller
	scanPlanCacheSize uint32
}

// Option configures table construction.
type Option func(*options)

// WithLogger configures structured logging for table operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for table operations.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController bounds the memory held by the table's published
// snapshots and paces commits. One controller may be shared by several
// tables. Nil disables resource control.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithScanPlanCacheSize bounds the table's projection plan cache.
// Zero keeps the engine default.
func WithScanPlanCacheSize(size uint32) Option {
	return func(o *options) {
		o.scanPlanCacheSize = size
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

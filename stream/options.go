package stream

import (
	"log/slog"
	"math"

	"github.com/hupe1980/zunderbolt"
	"github.com/hupe1980/zunderbolt/internal/arena"
	"github.com/hupe1980/zunderbolt/platform"
	"github.com/hupe1980/zunderbolt/resource"
)

type options struct {
	bufferSize     int
	growthFactor   float64
	alignment      int
	platform       platform.Platform
	logger         *zunderbolt.Logger
	metrics        zunderbolt.MetricsCollector
	controller     *resource.Controller
	readOnly       bool
	maxAddressable int64
	maxWindow      int
}

// Option configures a FileStream.
type Option func(*options)

// WithBufferSize sets the initial cache capacity in bytes.
// Values <= 0 select arena.DefaultLinearCapacity.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

// WithGrowthFactor sets the factor applied to a required capacity when the
// cache grows. It must be greater than 1.
func WithGrowthFactor(f float64) Option {
	return func(o *options) {
		o.growthFactor = f
	}
}

// WithAlignment sets the cache alignment. It must be a power of two.
func WithAlignment(align int) Option {
	return func(o *options) {
		o.alignment = align
	}
}

// WithPlatform selects the file I/O backend. Defaults to platform.Default.
func WithPlatform(p platform.Platform) Option {
	return func(o *options) {
		if p != nil {
			o.platform = p
		}
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *zunderbolt.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = zunderbolt.NewTextLogger(level)
	}
}

// WithMetrics configures the metrics collector. Pass nil to disable metrics.
func WithMetrics(mc zunderbolt.MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithController charges cache memory against the controller's budget.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithReadOnly opens files without write access regardless of their permissions.
func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithMaxAddressable sets the largest file size the stream will address.
// Larger files still open but are clamped and reported with FileIsTooLarge.
func WithMaxAddressable(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAddressable = n
		}
	}
}

// WithMaxWindow bounds the cached window in bytes. When a request would push
// a non-empty window past the bound the window is flushed first. Zero means
// unbounded.
func WithMaxWindow(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxWindow = n
		}
	}
}

// OptionsFromConfig translates the stream section of cfg into options.
func OptionsFromConfig(cfg zunderbolt.Config) []Option {
	return []Option{
		WithBufferSize(cfg.Stream.BufferSize),
		WithGrowthFactor(cfg.Stream.GrowthFactor),
		WithAlignment(cfg.Stream.Alignment),
		WithMaxWindow(cfg.Stream.MaxWindow),
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		bufferSize:     arena.DefaultLinearCapacity,
		growthFactor:   arena.DefaultGrowthFactor,
		alignment:      arena.DefaultLinearAlignment,
		platform:       platform.Default,
		logger:         zunderbolt.NoopLogger(),
		metrics:        zunderbolt.NoopMetricsCollector{},
		maxAddressable: math.MaxInt64,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = zunderbolt.NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = zunderbolt.NoopMetricsCollector{}
	}
	return o
}

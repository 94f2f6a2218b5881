package bindz

import (
	"time"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Option configures a Hooks target or a Stack during creation.
// Options that do not apply to a constructor are ignored by it.
type Option func(*config)

// config holds internal configuration for service creation.
type config struct {
	clock     clockz.Clock // Time abstraction for deterministic testing
	logger    *zap.Logger
	workers   int
	timeout   time.Duration
	queueSize int
}

func defaultConfig() config {
	return config{
		clock:   clockz.RealClock,
		logger:  zap.NewNop(),
		workers: 10,
	}
}

func buildConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.queueSize <= 0 {
		cfg.queueSize = cfg.workers * 2
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.clock == nil {
		cfg.clock = clockz.RealClock
	}
	return cfg
}

// WithWorkers sets the number of worker goroutines used by Emit.
// Default is 10 workers.
func WithWorkers(count int) Option {
	return func(c *config) {
		c.workers = count
	}
}

// WithTimeout sets the global timeout for all handler executions.
// Default is no timeout (0).
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithQueueSize sets the worker pool queue size.
// Default is 0, which auto-calculates as workers * 2.
func WithQueueSize(size int) Option {
	return func(c *config) {
		c.queueSize = size
	}
}

// WithClock sets the clock implementation for time operations.
// Default is clockz.RealClock; use a fake clock for deterministic tests.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the structured logger. Default is zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

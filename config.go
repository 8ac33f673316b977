package callback

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultOptions []Option
	defaultOptMu   sync.Mutex
)

// Option configures a Queue.
type Option func(*config)

// PanicHandler is called when a handler panics during a deferred pass,
// or during any pass when handler isolation is enabled.
// Receives the queue name and the recovered panic value.
type PanicHandler func(queue string, recovered any)

type config struct {
	name         string
	shortcut     string
	scheduler    Scheduler
	logger       zerolog.Logger
	metrics      *Metrics
	panicHandler PanicHandler
	isolate      bool
}

func newConfig(opts []Option) config {
	cfg := config{
		logger: zerolog.Nop(),
	}

	defaultOptMu.Lock()
	defaults := defaultOptions
	defaultOptMu.Unlock()

	for _, opt := range defaults {
		opt(&cfg)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.scheduler == nil {
		cfg.scheduler = defaultLoop()
	}
	return cfg
}

// Configure sets options applied to every Queue created afterwards.
// Per-queue options passed to New take precedence.
// Calling Configure with no options clears the defaults.
func Configure(opts ...Option) {
	defaultOptMu.Lock()
	defaultOptions = opts
	defaultOptMu.Unlock()
}

// WithName names the queue in logs, metrics, and panic reports.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithShortcut binds the queue's Add to the owner under prop.
// Only takes effect when the owner implements Binder.
func WithShortcut(prop string) Option {
	return func(c *config) {
		c.shortcut = prop
	}
}

// WithScheduler sets the scheduler used by Fire and FirePop.
// Defaults to a process-wide Loop served by a single goroutine.
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithSyncMode runs deferred passes inline, before Fire returns.
// This removes timing from tests that do not care about deferral.
// Should only be used in tests, not production code.
// Chain cycles between sync-mode queues recurse without bound.
func WithSyncMode() Option {
	return func(c *config) {
		c.scheduler = inline{}
	}
}

// WithLogger sets the structured logger. Defaults to a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithPanicHandler sets a callback invoked when a handler panic is recovered.
func WithPanicHandler(handler PanicHandler) Option {
	return func(c *config) {
		c.panicHandler = handler
	}
}

// WithHandlerIsolation recovers each handler on its own so that a panic
// does not skip the handlers after it. Without it a panic ends the pass.
func WithHandlerIsolation() Option {
	return func(c *config) {
		c.isolate = true
	}
}

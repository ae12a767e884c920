package barrier

import (
	"log/slog"
	"time"
)

type Option func(*config)

type config struct {
	yield  func()
	poll   time.Duration
	logger *slog.Logger
}

// WithYield replaces the per-round scheduling yield.
func WithYield(yield func()) Option {
	return func(c *config) {
		if yield != nil {
			c.yield = yield
		}
	}
}

// WithPollInterval sets how long a round sleeps when only resolution is in
// flight. Non-positive values are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.poll = d
		}
	}
}

// WithLogger sets a custom logger for the barrier.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the barrier.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *config) {
		c.logger = slog.New(handler)
	}
}

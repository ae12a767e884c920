package invalidate

import "log/slog"

type Option func(*Invalidator)

// WithLogger sets a custom logger for the Invalidator.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invalidator) {
		i.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Invalidator.
func WithLogHandler(handler slog.Handler) Option {
	return func(i *Invalidator) {
		i.logger = slog.New(handler)
	}
}

// WithProtection adds pred to the framework-internal protections.
func WithProtection(pred Predicate) Option {
	return func(i *Invalidator) {
		i.framework = Any(i.framework, pred)
	}
}

// WithMockPrefix replaces the identifier prefix of mocked modules.
func WithMockPrefix(prefix string) Option {
	return func(i *Invalidator) {
		i.mocks = Prefix(prefix)
	}
}

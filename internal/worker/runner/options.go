package runner

import (
	"context"
	"log/slog"

	"github.com/atlanticdynamic/lynxrun/internal/loader"
)

type Option func(*Worker)

// WithLogger sets a custom logger for the Worker instance.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Worker instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(w *Worker) {
		w.logger = slog.New(handler)
	}
}

// WithContext sets a custom parent context for the Worker instance.
func WithContext(ctx context.Context) Option {
	return func(w *Worker) {
		w.parentCtx = ctx
	}
}

// WithFiles replaces the test files listed in the configuration.
func WithFiles(files ...string) Option {
	return func(w *Worker) {
		if len(files) > 0 {
			w.files = files
		}
	}
}

// WithLoaderOptions passes extra options to the module loader, such as a
// custom compiler.
func WithLoaderOptions(opts ...loader.Option) Option {
	return func(w *Worker) {
		w.loaderOpts = append(w.loaderOpts, opts...)
	}
}

// WithReportHandler registers fn to receive the report of every completed
// cycle.
func WithReportHandler(fn func(*Report)) Option {
	return func(w *Worker) {
		w.onReport = fn
	}
}

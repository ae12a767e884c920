package loader

import (
	"log/slog"
	"maps"
	"time"
)

type Option func(*Loader)

// WithLogger sets a custom logger for the Loader instance.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Loader instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(l *Loader) {
		l.logger = slog.New(handler)
	}
}

// WithCompiler replaces the go-polyscript compiler.
func WithCompiler(compiler Compiler) Option {
	return func(l *Loader) {
		l.compiler = compiler
	}
}

// WithEnvironment sets the environment name passed to every module.
func WithEnvironment(name string) Option {
	return func(l *Loader) {
		l.environment = name
	}
}

// WithRoot sets the directory that importer-less specifiers resolve against.
func WithRoot(root string) Option {
	return func(l *Loader) {
		if root != "" {
			l.root = root
		}
	}
}

// WithTimeout bounds the evaluation of each module body. Non-positive values
// keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// WithMockPrefix sets the identifier prefix of mocked modules.
func WithMockPrefix(prefix string) Option {
	return func(l *Loader) {
		if prefix != "" {
			l.mockPrefix = prefix
		}
	}
}

// WithData sets static data exposed to every module under "data".
func WithData(d map[string]any) Option {
	return func(l *Loader) {
		l.data = maps.Clone(d)
	}
}

package main

import (
	"log/slog"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/logging"
	"github.com/atlanticdynamic/lynxrun/internal/logging/writers"
)

// SetupLogger configures the default logger based on provided log level
func SetupLogger(logLevel string) {
	logging.SetupLogger(logLevel)
}

// setupConfigLogger installs the logger described by cfg as the default and
// returns the output to close on exit.
func setupConfigLogger(cfg config.LoggingConfig) (*writers.Output, error) {
	handler, out, err := logging.NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(handler))
	return out, nil
}

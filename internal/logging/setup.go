package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/logging/writers"
	"github.com/charmbracelet/log"
)

// levelOptions is what a level name turns into for either handler.
type levelOptions struct {
	level     slog.Level
	caller    bool
	timestamp bool
}

// parseLevel maps a level name to handler options. Unknown names mean info.
// trace is debug plus caller locations; debug and trace also add timestamps.
func parseLevel(name string) levelOptions {
	switch strings.ToLower(name) {
	case config.LogLevelTrace.String():
		return levelOptions{level: slog.LevelDebug, caller: true, timestamp: true}
	case config.LogLevelDebug.String():
		return levelOptions{level: slog.LevelDebug, timestamp: true}
	case config.LogLevelWarn.String(), "warning":
		return levelOptions{level: slog.LevelWarn}
	case config.LogLevelError.String():
		return levelOptions{level: slog.LevelError}
	default:
		return levelOptions{level: slog.LevelInfo}
	}
}

// SetupHandlerText returns a charmbracelet text handler writing to writer,
// or to stderr when writer is nil.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}
	opts := parseLevel(logLevel)
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: opts.timestamp,
		ReportCaller:    opts.caller,
		// charmbracelet levels share slog's numeric values
		Level: log.Level(opts.level),
	})
}

// SetupHandlerJSON returns a JSON handler writing to writer, or to stdout when
// writer is nil.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}
	opts := parseLevel(logLevel)
	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     opts.level,
		AddSource: opts.caller,
	})
}

// NewHandler builds the handler described by the logging section of a config
// and returns it together with the opened output, which the caller closes.
func NewHandler(cfg config.LoggingConfig) (slog.Handler, *writers.Output, error) {
	out, err := writers.Open(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output: %w", err)
	}

	if cfg.Format == config.LogFormatJSON {
		return SetupHandlerJSON(cfg.Level.String(), out), out, nil
	}
	return SetupHandlerText(cfg.Level.String(), out), out, nil
}

// SetupLogger installs a stderr text handler at logLevel as the slog default.
func SetupLogger(logLevel string) {
	slog.SetDefault(slog.New(SetupHandlerText(logLevel, nil)))
}

// Package config holds the worker configuration: where test files live, how
// logs are written, and which cached modules survive a rerun.
package config

import (
	"fmt"
	"time"
)

const (
	// VersionLatest is the only supported configuration version.
	VersionLatest = "v1"
	// VersionUnknown marks a config whose version was never set.
	VersionUnknown = "unknown"

	// DefaultEnvironment is the worker environment when none is configured.
	DefaultEnvironment = "starlark"
	// DefaultMockPrefix tags identifiers registered as test doubles.
	DefaultMockPrefix = "mock:"
	// DefaultModuleTimeout bounds the evaluation of a single module.
	DefaultModuleTimeout = Duration(1 * time.Minute)
)

// Config is the resolved run configuration of a worker.
type Config struct {
	Version string
	Logging LoggingConfig
	Worker  WorkerConfig
	Modules ModulesConfig
	Run     RunConfig
}

// WorkerConfig describes the worker itself.
type WorkerConfig struct {
	// Environment names the active runtime sandbox, e.g. "starlark" or "risor".
	Environment string
	// Title is shown in the process list. Empty means the environment name.
	Title string
}

// ModulesConfig controls module cache invalidation and evaluation.
type ModulesConfig struct {
	ResetMocks      bool
	MockPrefix      string
	ProtectPatterns []string
	ProtectGlobs    []string
	Timeout         Duration
}

// RunConfig lists the test files a run executes.
type RunConfig struct {
	Root  string
	Files []string
}

// NewDefault returns a config with every default applied.
func NewDefault() *Config {
	return &Config{
		Version: VersionLatest,
		Logging: LoggingConfig{
			Format: LogFormatText,
			Level:  LogLevelInfo,
			Output: "stderr",
		},
		Worker: WorkerConfig{
			Environment: DefaultEnvironment,
		},
		Modules: ModulesConfig{
			MockPrefix: DefaultMockPrefix,
			Timeout:    DefaultModuleTimeout,
		},
		Run: RunConfig{
			Root: ".",
		},
	}
}

// NewConfig loads configuration from a TOML file
func NewConfig(filePath string) (*Config, error) {
	l, err := NewLoaderFromFilePath(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from file: %w", err)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return l.GetConfig(), nil
}

// NewConfigFromBytes loads configuration from TOML bytes
func NewConfigFromBytes(data []byte) (*Config, error) {
	l, err := NewLoaderFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from bytes: %w", err)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return l.GetConfig(), nil
}

// DisplayTitle returns the title to show in the process list.
func (c *Config) DisplayTitle() string {
	if c.Worker.Title != "" {
		return c.Worker.Title
	}
	return c.Worker.Environment
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Modules.ProtectPatterns = append([]string(nil), c.Modules.ProtectPatterns...)
	out.Modules.ProtectGlobs = append([]string(nil), c.Modules.ProtectGlobs...)
	out.Run.Files = append([]string(nil), c.Run.Files...)
	return &out
}

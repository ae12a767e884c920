package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/lynxrun/internal/config/errz"
	"github.com/atlanticdynamic/lynxrun/internal/interpolation"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the on-disk TOML layout.
type fileConfig struct {
	Version string `toml:"version"`
	Logging struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		Output string `toml:"output" env_interpolation:"yes"`
	} `toml:"logging" env_interpolation:"yes"`
	Worker struct {
		Environment string `toml:"environment" env_interpolation:"yes"`
		Title       string `toml:"title"       env_interpolation:"yes"`
	} `toml:"worker" env_interpolation:"yes"`
	Modules struct {
		ResetMocks      bool      `toml:"reset_mocks"`
		MockPrefix      string    `toml:"mock_prefix"`
		ProtectPatterns []string  `toml:"protect_patterns"`
		ProtectGlobs    []string  `toml:"protect_globs"    env_interpolation:"yes"`
		Timeout         *Duration `toml:"timeout"`
	} `toml:"modules" env_interpolation:"yes"`
	Run struct {
		Root  string   `toml:"root"  env_interpolation:"yes"`
		Files []string `toml:"files" env_interpolation:"yes"`
	} `toml:"run" env_interpolation:"yes"`
}

// Loader handles loading configuration from TOML files
type Loader struct {
	domainConfig *Config
	source       string
}

// NewLoader creates a loader holding the default configuration
func NewLoader() *Loader {
	return &Loader{domainConfig: NewDefault()}
}

// GetConfig returns the domain model configuration
func (l *Loader) GetConfig() *Config {
	return l.domainConfig
}

// Validate validates the loaded configuration
func (l *Loader) Validate() error {
	if l.domainConfig == nil {
		return fmt.Errorf("%w: nothing loaded", errz.ErrFailedToLoadConfig)
	}
	return l.domainConfig.Validate()
}

// NewLoaderFromFilePath loads configuration from a TOML file. Relative run
// roots are resolved against the directory of the file.
func NewLoaderFromFilePath(filePath string) (*Loader, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", filePath)
	}

	ext := filepath.Ext(filePath)
	if ext != ".toml" {
		return nil, fmt.Errorf("unsupported config format: %s, only .toml is supported", ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	l, err := NewLoaderFromBytes(data)
	if err != nil {
		return nil, err
	}
	l.source = filePath

	if root := l.domainConfig.Run.Root; !filepath.IsAbs(root) {
		l.domainConfig.Run.Root = filepath.Join(filepath.Dir(filePath), root)
	}
	return l, nil
}

// NewLoaderFromReader loads configuration from an io.Reader providing TOML data
func NewLoaderFromReader(reader io.Reader) (*Loader, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data from reader: %w", err)
	}
	return NewLoaderFromBytes(data)
}

// NewLoaderFromBytes loads configuration from TOML bytes. Unknown keys are
// rejected; ${VAR} and ${VAR:default} references in paths, titles and the
// environment name are expanded.
func NewLoaderFromBytes(data []byte) (*Loader, error) {
	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrParseToml, err)
	}

	if versionCheck.Version == "" {
		versionCheck.Version = VersionLatest
	}
	if versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf("%w: %s", errz.ErrUnsupportedConfigVer, versionCheck.Version)
	}

	var raw fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrParseToml, err)
	}
	if err := interpolation.InterpolateStruct(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrEnvInterpolation, err)
	}

	return &Loader{domainConfig: fromFile(&raw)}, nil
}

// fromFile overlays the values present in raw onto the defaults.
func fromFile(raw *fileConfig) *Config {
	cfg := NewDefault()

	if raw.Version != "" {
		cfg.Version = raw.Version
	}
	if raw.Logging.Level != "" {
		cfg.Logging.Level = LogLevel(raw.Logging.Level)
	}
	if raw.Logging.Format != "" {
		cfg.Logging.Format = LogFormat(raw.Logging.Format)
	}
	if raw.Logging.Output != "" {
		cfg.Logging.Output = raw.Logging.Output
	}

	if raw.Worker.Environment != "" {
		cfg.Worker.Environment = raw.Worker.Environment
	}
	cfg.Worker.Title = raw.Worker.Title

	cfg.Modules.ResetMocks = raw.Modules.ResetMocks
	if raw.Modules.MockPrefix != "" {
		cfg.Modules.MockPrefix = raw.Modules.MockPrefix
	}
	cfg.Modules.ProtectPatterns = raw.Modules.ProtectPatterns
	cfg.Modules.ProtectGlobs = raw.Modules.ProtectGlobs
	if raw.Modules.Timeout != nil {
		cfg.Modules.Timeout = *raw.Modules.Timeout
	}

	if raw.Run.Root != "" {
		cfg.Run.Root = raw.Run.Root
	}
	cfg.Run.Files = raw.Run.Files

	return cfg
}

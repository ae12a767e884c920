package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/atlanticdynamic/lynxrun/internal/config/errz"
	"github.com/gobwas/glob"
)

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = VersionUnknown
	}

	switch c.Version {
	case VersionLatest:
		// Supported version
	default:
		return fmt.Errorf("%w: %s", errz.ErrUnsupportedConfigVer, c.Version)
	}

	errs := []error{}

	if !c.Logging.Level.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrInvalidLogLevel, c.Logging.Level))
	}
	if !c.Logging.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrInvalidLogFormat, c.Logging.Format))
	}

	if c.Worker.Environment == "" {
		errs = append(errs, fmt.Errorf("%w: worker.environment", errz.ErrMissingRequiredField))
	}

	if c.Modules.MockPrefix == "" {
		errs = append(errs, fmt.Errorf("%w: modules.mock_prefix", errz.ErrMissingRequiredField))
	}
	if c.Modules.Timeout < 0 {
		errs = append(errs, fmt.Errorf(
			"%w: modules.timeout must not be negative, got %s",
			errz.ErrInvalidValue,
			c.Modules.Timeout,
		))
	}
	for _, p := range c.Modules.ProtectPatterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("%w: regexp %q: %w", errz.ErrInvalidPattern, p, err))
		}
	}
	for _, g := range c.Modules.ProtectGlobs {
		if _, err := glob.Compile(g, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: glob %q: %w", errz.ErrInvalidPattern, g, err))
		}
	}

	for i, f := range c.Run.Files {
		if f == "" {
			errs = append(errs, fmt.Errorf("%w: run.files[%d] is empty", errz.ErrInvalidValue, i))
		}
	}

	return errors.Join(errs...)
}

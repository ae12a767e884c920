// Package invalidate prunes a worker's module cache between run cycles so the
// next import of a test file, and of everything it loads, re-executes from
// source. Framework-internal modules, and mocked modules unless mocks are
// being reset, are protected and keep their evaluated state.
package invalidate

import (
	"log/slog"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/modcache"
)

// DefaultPatterns match the identifiers of framework-internal modules: the
// built-in virtual modules and the framework's own distribution folders,
// including vendored package-store layouts.
var DefaultPatterns = []string{
	`^lynxrun:`,
	`/lynxrun/dist/`,
	`/lynxrun-runtime/dist/`,
	`lynxrun-virtual-\w+/dist`,
	`@lynxrun/dist`,
}

// Options control a single invalidation sweep.
type Options struct {
	// ResetMocks also invalidates mocked modules.
	ResetMocks bool
}

// Invalidator decides which cached modules survive a sweep.
type Invalidator struct {
	framework Predicate
	mocks     Predicate
	logger    *slog.Logger
}

// New creates an Invalidator protecting DefaultPatterns and the default mock
// prefix.
func New(opts ...Option) *Invalidator {
	i := &Invalidator{
		framework: mustRegexp(DefaultPatterns...),
		mocks:     Prefix(config.DefaultMockPrefix),
		logger:    slog.Default().WithGroup("invalidate.Invalidator"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NewFromConfig creates an Invalidator extended with the protections listed
// in the modules configuration.
func NewFromConfig(cfg config.ModulesConfig, opts ...Option) (*Invalidator, error) {
	patterns, err := Regexp(cfg.ProtectPatterns...)
	if err != nil {
		return nil, err
	}
	globs, err := Glob(cfg.ProtectGlobs...)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithProtection(patterns),
		WithProtection(globs),
		WithMockPrefix(cfg.MockPrefix),
	}
	return New(append(base, opts...)...), nil
}

// IsProtected reports whether a sweep with the given options leaves id alone.
func (i *Invalidator) IsProtected(id string, opts Options) bool {
	if i.framework(id) {
		return true
	}
	return !opts.ResetMocks && i.mocks(id)
}

// Invalidate resets every unprotected record of cache exactly once and
// returns the invalidated identifiers. Records stay in the cache. The sweep
// is synchronous: no import observes a partially invalidated cache.
func (i *Invalidator) Invalidate(cache *modcache.Cache, opts Options) []string {
	if cache == nil {
		return nil
	}
	invalidated := cache.InvalidateUnless(func(id string) bool {
		return i.IsProtected(id, opts)
	})
	i.logger.Debug("Module cache invalidated",
		"invalidated", len(invalidated),
		"kept", cache.Len()-len(invalidated),
		"resetMocks", opts.ResetMocks,
	)
	return invalidated
}

var defaultInvalidator = New()

// Invalidate sweeps cache with the default protections.
func Invalidate(cache *modcache.Cache, opts Options) []string {
	return defaultInvalidator.Invalidate(cache, opts)
}

func mustRegexp(patterns ...string) Predicate {
	p, err := Regexp(patterns...)
	if err != nil {
		panic(err)
	}
	return p
}

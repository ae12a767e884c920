// Package loader imports test modules into a worker's module cache.
//
// A module is a Starlark (.star) or Risor (.risor) script compiled and run
// with go-polyscript. Modules declare their imports with comment directives
// (see Directives). Every import creates or refreshes the cache record
// synchronously, before its load runs in the background, so a barrier
// started afterwards always observes it.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/modcache"
	"github.com/atlanticdynamic/lynxrun/internal/worker/state"
)

const (
	// VirtualPrefix marks built-in modules that never come from disk.
	VirtualPrefix = "lynxrun:"

	// PreludeID is the built-in module every worker starts with.
	PreludeID = VirtualPrefix + "prelude"
)

// Loader owns imports into one module cache.
type Loader struct {
	cache    *modcache.Cache
	compiler Compiler

	environment string
	root        string
	timeout     time.Duration
	mockPrefix  string
	data        map[string]any

	logger *slog.Logger

	// startMu serializes the decision to begin a load for a record
	startMu sync.Mutex
	loads   sync.WaitGroup
}

// New creates a Loader for cache and registers the prelude.
func New(cache *modcache.Cache, opts ...Option) *Loader {
	l := &Loader{
		cache:       cache,
		environment: config.DefaultEnvironment,
		root:        ".",
		timeout:     config.DefaultModuleTimeout.AsDuration(),
		mockPrefix:  config.DefaultMockPrefix,
		logger:      slog.Default().WithGroup("loader.Loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.compiler == nil {
		l.compiler = NewPolyscriptCompiler(l.logger.WithGroup("polyscript").Handler())
	}
	l.registerPrelude()
	return l
}

// NewFromState creates a Loader for the state's module cache, configured from
// its environment and configuration.
func NewFromState(st *state.State, opts ...Option) *Loader {
	cfg := st.Config
	base := []Option{
		WithEnvironment(st.Environment.Name),
		WithRoot(cfg.Run.Root),
		WithTimeout(cfg.Modules.Timeout.AsDuration()),
		WithMockPrefix(cfg.Modules.MockPrefix),
	}
	return New(st.Modules, append(base, opts...)...)
}

// String implements fmt.Stringer.
func (l *Loader) String() string {
	return fmt.Sprintf("loader.Loader(environment=%s, modules=%d)", l.environment, l.cache.Len())
}

// Cache returns the module cache this loader imports into.
func (l *Loader) Cache() *modcache.Cache {
	return l.cache
}

func (l *Loader) registerPrelude() {
	rec, _ := l.cache.GetOrCreate(PreludeID)
	if rec.Evaluated() {
		return
	}
	rec.Finish(rec.Begin(), map[string]any{
		"name":        "lynxrun",
		"environment": l.environment,
	}, nil)
}

// Mock registers exports as the settled module "<mock prefix><id>" and
// returns its record.
func (l *Loader) Mock(id string, exports any) *modcache.Record {
	if !strings.HasPrefix(id, l.mockPrefix) {
		id = l.mockPrefix + id
	}
	rec, _ := l.cache.GetOrCreate(id)
	l.startMu.Lock()
	defer l.startMu.Unlock()
	rec.Finish(rec.Begin(), exports, nil)
	return rec
}

// Resolve maps a specifier to a module identifier. Virtual and mock
// identifiers are kept verbatim; paths are made absolute relative to the
// importer's directory, or to the root when there is no importer.
func (l *Loader) Resolve(specifier, importer string) (string, error) {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		return "", ErrEmptySpecifier
	}
	if l.isVirtual(specifier) {
		return specifier, nil
	}

	path := strings.TrimPrefix(specifier, "file://")
	if !filepath.IsAbs(path) {
		base := l.root
		if importer != "" && !l.isVirtual(importer) {
			base = filepath.Dir(importer)
		}
		path = filepath.Join(base, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", specifier, err)
	}
	return abs, nil
}

func (l *Loader) isVirtual(id string) bool {
	return strings.HasPrefix(id, VirtualPrefix) || strings.HasPrefix(id, l.mockPrefix)
}

// Import loads specifier, waits for it to settle and returns its record. The
// returned error is the module's own failure, if any.
func (l *Loader) Import(ctx context.Context, specifier, importer string) (*modcache.Record, error) {
	id, err := l.Resolve(specifier, importer)
	if err != nil {
		return nil, err
	}

	chain := importChain(ctx)
	if slices.Contains(chain, id) {
		return nil, fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(append(chain, id), " -> "))
	}

	rec, load := l.start(ctx, id)
	select {
	case <-load.Done():
		return rec, load.Err()
	case <-ctx.Done():
		return rec, ctx.Err()
	}
}

// ImportAsync starts loading specifier and returns its record at once. The
// record is already loading when ImportAsync returns.
func (l *Loader) ImportAsync(ctx context.Context, specifier, importer string) (*modcache.Record, error) {
	id, err := l.Resolve(specifier, importer)
	if err != nil {
		return nil, err
	}
	rec, _ := l.start(withoutChain(ctx), id)
	return rec, nil
}

// Wait blocks until every load started by this loader has finished.
func (l *Loader) Wait() {
	l.loads.Wait()
}

// start returns the record for id and the load to wait on, beginning a new
// load when the record is neither loading nor evaluated.
func (l *Loader) start(ctx context.Context, id string) (*modcache.Record, *modcache.Load) {
	rec, _ := l.cache.GetOrCreate(id)

	l.startMu.Lock()
	defer l.startMu.Unlock()

	if load, ok := rec.Pending(); ok {
		return rec, load
	}
	if rec.Evaluated() {
		if load := rec.Load(); load != nil {
			return rec, load
		}
		settled := modcache.NewLoad()
		settled.Settle(nil)
		return rec, settled
	}

	load := rec.Begin()
	l.loads.Add(1)
	go func() {
		defer l.loads.Done()
		l.load(ctx, rec, load)
	}()
	return rec, load
}

// load runs the pipeline of one module and settles load. When the record was
// invalidated meanwhile, load still settles but the record keeps its reset
// state for the load that replaced it.
func (l *Loader) load(ctx context.Context, rec *modcache.Record, load *modcache.Load) {
	id := rec.ID()
	logger := l.logger.With("module", id)
	start := time.Now()

	exports, dynamic, err := l.execute(withChain(ctx, id), rec, load)
	if err != nil {
		logger.Debug("Module failed", "error", err, "duration", time.Since(start))
		rec.Finish(load, nil, err)
		return
	}

	// started before settling so that waiters see them in their next scan
	for _, spec := range dynamic {
		if _, err := l.ImportAsync(ctx, spec, id); err != nil {
			logger.Warn("Dynamic import failed", "specifier", spec, "error", err)
		}
	}

	if !rec.Finish(load, exports, nil) {
		logger.Debug("Discarded exports of invalidated load", "duration", time.Since(start))
		return
	}
	logger.Debug("Module evaluated", "duration", time.Since(start), "dynamicImports", len(dynamic))
}

// execute reads, resolves, compiles and runs a module. It returns the exports
// and the dynamic imports to start afterwards.
func (l *Loader) execute(ctx context.Context, rec *modcache.Record, load *modcache.Load) (any, []string, error) {
	id := rec.ID()
	if l.isVirtual(id) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownModule, id)
	}

	engine, err := EngineForPath(id)
	if err != nil {
		return nil, nil, err
	}

	src, err := os.ReadFile(id)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	source := string(src)
	directives := ParseDirectives(source)

	rec.SetResolving(load, true)
	imports, err := l.resolveImports(ctx, id, directives.Imports)
	rec.SetResolving(load, false)
	if err != nil {
		return nil, nil, err
	}

	prog, err := l.compiler.Compile(engine, id, source)
	if err != nil {
		return nil, nil, err
	}
	rec.SetCompiled(load, prog)

	runCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	exports, err := prog.Run(runCtx, l.evalData(id, imports))
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, nil, fmt.Errorf("%w: %s: timed out after %s: %w", ErrEvaluationFailed, id, l.timeout, err)
		}
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrEvaluationFailed, id, err)
	}
	return exports, directives.DynamicImports, nil
}

// resolveImports loads every static import and returns their exports keyed
// by module name.
func (l *Loader) resolveImports(ctx context.Context, importer string, specs []string) (map[string]any, error) {
	imports := make(map[string]any, len(specs))
	for _, spec := range specs {
		dep, err := l.Import(ctx, spec, importer)
		if err != nil {
			return nil, fmt.Errorf("importing %q from %s: %w", spec, importer, err)
		}
		imports[l.moduleName(dep.ID())] = dep.Exports()
	}
	return imports, nil
}

// moduleName is the key under which a module's exports are exposed to its
// importers: the file name without extension, or the virtual name without
// its prefix.
func (l *Loader) moduleName(id string) string {
	for _, prefix := range []string{VirtualPrefix, l.mockPrefix} {
		if name, ok := strings.CutPrefix(id, prefix); ok {
			return name
		}
	}
	base := filepath.Base(id)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (l *Loader) evalData(id string, imports map[string]any) map[string]any {
	d := l.data
	if d == nil {
		d = map[string]any{}
	}
	return map[string]any{
		"module":      id,
		"environment": l.environment,
		"imports":     imports,
		"data":        d,
	}
}

type chainKey struct{}

func importChain(ctx context.Context) []string {
	chain, _ := ctx.Value(chainKey{}).([]string)
	return chain
}

func withChain(ctx context.Context, id string) context.Context {
	chain := importChain(ctx)
	return context.WithValue(ctx, chainKey{}, append(slices.Clip(chain), id))
}

func withoutChain(ctx context.Context) context.Context {
	if importChain(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, chainKey{}, []string(nil))
}

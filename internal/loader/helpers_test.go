package loader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/atlanticdynamic/lynxrun/internal/modcache"
	"github.com/stretchr/testify/require"
)

// programFunc adapts a function to modcache.Program.
type programFunc func(ctx context.Context, data map[string]any) (any, error)

func (f programFunc) Run(ctx context.Context, data map[string]any) (any, error) {
	return f(ctx, data)
}

// fakeCompiler returns the program registered for a module's file name, or a
// program exporting the file name. It records every compilation.
type fakeCompiler struct {
	mu       sync.Mutex
	programs map[string]programFunc
	errs     map[string]error
	compiled []string
	data     map[string]map[string]any
}

func newFakeCompiler() *fakeCompiler {
	return &fakeCompiler{
		programs: make(map[string]programFunc),
		errs:     make(map[string]error),
		data:     make(map[string]map[string]any),
	}
}

func (c *fakeCompiler) Compile(engine EngineType, id string, source string) (modcache.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := filepath.Base(id)
	c.compiled = append(c.compiled, name)
	if err, ok := c.errs[name]; ok {
		return nil, err
	}
	run, ok := c.programs[name]
	if !ok {
		run = func(context.Context, map[string]any) (any, error) { return name, nil }
	}
	return programFunc(func(ctx context.Context, d map[string]any) (any, error) {
		c.mu.Lock()
		c.data[name] = d
		c.mu.Unlock()
		return run(ctx, d)
	}), nil
}

func (c *fakeCompiler) set(name string, run programFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs[name] = run
}

func (c *fakeCompiler) compilations(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, got := range c.compiled {
		if got == name {
			n++
		}
	}
	return n
}

func (c *fakeCompiler) evalData(name string) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[name]
}

// blockingProgram exports value once release is closed.
func blockingProgram(release <-chan struct{}, value any) programFunc {
	return func(ctx context.Context, _ map[string]any) (any, error) {
		select {
		case <-release:
			return value, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func writeModule(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(t *testing.T, compiler Compiler, opts ...Option) *Loader {
	t.Helper()
	base := []Option{WithCompiler(compiler), WithRoot(t.TempDir())}
	l := New(modcache.New(), append(base, opts...)...)
	t.Cleanup(l.Wait)
	return l
}

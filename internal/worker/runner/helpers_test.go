package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/loader"
	"github.com/atlanticdynamic/lynxrun/internal/modcache"
	"github.com/stretchr/testify/require"
)

// scriptProgram exports a value picked from the first line of the module
// source: "pass", "fail", "map-fail" or "error".
type scriptProgram struct {
	source string
}

func (p scriptProgram) Run(context.Context, map[string]any) (any, error) {
	first, _, _ := strings.Cut(p.source, "\n")
	switch strings.TrimSpace(first) {
	case "fail":
		return false, nil
	case "map-fail":
		return map[string]any{"passed": false}, nil
	case "error":
		return nil, errors.New("assertion error")
	default:
		return map[string]any{"passed": true}, nil
	}
}

// sourceCompiler compiles every module to a scriptProgram and counts
// compilations per file name.
type sourceCompiler struct {
	mu    sync.Mutex
	count map[string]int
}

func newSourceCompiler() *sourceCompiler {
	return &sourceCompiler{count: make(map[string]int)}
}

func (c *sourceCompiler) Compile(_ loader.EngineType, id string, source string) (modcache.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count[filepath.Base(id)]++
	return scriptProgram{source: source}, nil
}

func (c *sourceCompiler) compilations(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count[name]
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T, files ...string) *config.Config {
	t.Helper()
	cfg := config.NewDefault()
	cfg.Run.Root = t.TempDir()
	cfg.Run.Files = files
	return cfg
}

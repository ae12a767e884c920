package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lynxrun.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateLocal(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, "[worker]\nenvironment = \"risor\"\n")
		require.NoError(t, validateLocal(t.Context(), path, false))
		require.NoError(t, validateLocal(t.Context(), path, true))
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writeConfig(t, "[modules]\nprotect_patterns = [\"(\"]\n")
		err := validateLocal(t.Context(), path, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("missing file", func(t *testing.T) {
		err := validateLocal(t.Context(), filepath.Join(t.TempDir(), "missing.toml"), false)
		require.Error(t, err)
	})
}

func TestRenderConfigSummary(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Run.Files = []string{"a_test.star", "b_test.star"}

	summary := renderConfigSummary("lynxrun.toml", cfg)
	assert.Contains(t, summary, "- Path: lynxrun.toml")
	assert.Contains(t, summary, "- Version: v1")
	assert.Contains(t, summary, "- Environment: starlark")
	assert.Contains(t, summary, "- Files: 2")
	assert.Contains(t, summary, `- Mock prefix: "mock:"`)
	assert.Contains(t, summary, "- Protected: 0 patterns, 0 globs")
}

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/worker/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// parseRun runs args through a command carrying runCmd's flags and returns
// what the action saw, without exiting the process.
func parseRun(t *testing.T, args []string, action func(context.Context, *cli.Command) error) error {
	t.Helper()
	var actionErr error
	cmd := &cli.Command{
		Name:  "run",
		Flags: runFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			actionErr = action(ctx, cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(t.Context(), append([]string{"run"}, args...)))
	return actionErr
}

func TestLoadRunConfig(t *testing.T) {
	t.Run("flags and files", func(t *testing.T) {
		var cfg *config.Config
		err := parseRun(t, []string{
			"--env", "risor",
			"--title", "worker-7",
			"--root", "/srv/tests",
			"--log-level", "debug",
			"--log-format", "json",
			"--log-output", "stdout",
			"--reset-mocks",
			"a_test.risor", "b_test.risor",
		}, func(_ context.Context, cmd *cli.Command) error {
			var err error
			cfg, err = loadRunConfig(cmd)
			return err
		})
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "risor", cfg.Worker.Environment)
		assert.Equal(t, "worker-7", cfg.Worker.Title)
		assert.Equal(t, "/srv/tests", cfg.Run.Root)
		assert.Equal(t, config.LogLevelDebug, cfg.Logging.Level)
		assert.Equal(t, config.LogFormatJSON, cfg.Logging.Format)
		assert.Equal(t, "stdout", cfg.Logging.Output)
		assert.True(t, cfg.Modules.ResetMocks)
		assert.Equal(t, []string{"a_test.risor", "b_test.risor"}, cfg.Run.Files)
	})

	t.Run("config file with flag override", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lynxrun.toml")
		content := "[worker]\nenvironment = \"risor\"\n\n[run]\nfiles = [\"a_test.risor\"]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		var cfg *config.Config
		err := parseRun(t, []string{"-c", path, "--env", "starlark"},
			func(_ context.Context, cmd *cli.Command) error {
				var err error
				cfg, err = loadRunConfig(cmd)
				return err
			})
		require.NoError(t, err)
		assert.Equal(t, "starlark", cfg.Worker.Environment)
		assert.Equal(t, []string{"a_test.risor"}, cfg.Run.Files)
		assert.Equal(t, dir, cfg.Run.Root)
	})

	t.Run("no files", func(t *testing.T) {
		err := parseRun(t, nil, func(_ context.Context, cmd *cli.Command) error {
			_, err := loadRunConfig(cmd)
			return err
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no test files given")
	})

	t.Run("invalid flag value", func(t *testing.T) {
		err := parseRun(t, []string{"--log-level", "loud", "a_test.star"},
			func(_ context.Context, cmd *cli.Command) error {
				_, err := loadRunConfig(cmd)
				return err
			})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown log level")
	})

	t.Run("flag aliases", func(t *testing.T) {
		var cfg *config.Config
		err := parseRun(t, []string{"--log-level", "warning", "--log-format", "txt", "a_test.star"},
			func(_ context.Context, cmd *cli.Command) error {
				var err error
				cfg, err = loadRunConfig(cmd)
				return err
			})
		require.NoError(t, err)
		assert.Equal(t, config.LogLevelWarn, cfg.Logging.Level)
		assert.Equal(t, config.LogFormatText, cfg.Logging.Format)
	})

	t.Run("invalid protect glob in config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lynxrun.toml")
		require.NoError(t, os.WriteFile(path, []byte("version = \"v1\"\n\n[modules]\nprotect_globs = [\"[\"]\n"), 0o644))
		err := parseRun(t, []string{"-c", path, "a_test.star"},
			func(_ context.Context, cmd *cli.Command) error {
				_, err := loadRunConfig(cmd)
				return err
			})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "glob")
	})

	t.Run("missing config file", func(t *testing.T) {
		err := parseRun(t, []string{"-c", filepath.Join(t.TempDir(), "missing.toml"), "a_test.star"},
			func(_ context.Context, cmd *cli.Command) error {
				_, err := loadRunConfig(cmd)
				return err
			})
		require.Error(t, err)
	})
}

func TestRunAction(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)
	t.Cleanup(state.Reset)

	dir := t.TempDir()
	passing := filepath.Join(dir, "pass_test.star")
	require.NoError(t, os.WriteFile(passing, []byte("_ = {\"passed\": True}\n"), 0o644))
	failing := filepath.Join(dir, "fail_test.star")
	require.NoError(t, os.WriteFile(failing, []byte("fail(\"assertion failed\")\n"), 0o644))
	logPath := filepath.Join(dir, "run.log")

	t.Run("passing files", func(t *testing.T) {
		err := parseRun(t, []string{"--log-output", logPath, passing}, runAction)
		require.NoError(t, err)
	})

	t.Run("failing file exits non-zero", func(t *testing.T) {
		err := parseRun(t, []string{"--log-output", logPath, passing, failing}, runAction)
		require.Error(t, err)
		var exitErr cli.ExitCoder
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.ExitCode())
	})

	t.Run("unknown environment", func(t *testing.T) {
		err := parseRun(t, []string{"--log-output", logPath, "--env", "python", passing}, runAction)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create worker")
	})
}

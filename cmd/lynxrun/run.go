package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/worker/runner"
	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"
)

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "Run test files and report the results",
	ArgsUsage: "[files...]",
	Flags:     runFlags(),
	Action:    runAction,
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to TOML configuration file",
		},
		&cli.StringFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Worker environment (starlark or risor)",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Process title shown in the process list",
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Directory relative test files are resolved against",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (trace, debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format (text or json)",
		},
		&cli.StringFlag{
			Name:  "log-output",
			Usage: "Log output (stdout, stderr or a file path)",
		},
		&cli.BoolFlag{
			Name:  "reset-mocks",
			Usage: "Reset registered mock modules before every run",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Keep the worker running and rerun on SIGHUP",
		},
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return cli.Exit(err, 1)
	}

	out, err := setupConfigLogger(cfg.Logging)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer func() { _ = out.Close() }()

	logger := slog.Default()

	if cmd.Bool("watch") {
		return watch(ctx, cfg, logger)
	}

	worker, err := runner.New(cfg, runner.WithLogger(logger.With("component", "worker")))
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create worker: %w", err), 1)
	}

	report, err := worker.RunCycle(ctx)
	if err != nil {
		return cli.Exit(fmt.Errorf("run failed: %w", err), 1)
	}
	fmt.Println(report)

	if !report.Passed() {
		return cli.Exit("", 1)
	}
	return nil
}

// loadRunConfig reads the optional config file, then applies the flags and
// positional file arguments on top of it.
func loadRunConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.NewDefault()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.NewConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := cmd.String("env"); v != "" {
		cfg.Worker.Environment = v
	}
	if v := cmd.String("title"); v != "" {
		cfg.Worker.Title = v
	}
	if v := cmd.String("root"); v != "" {
		cfg.Run.Root = v
	}
	if v := cmd.String("log-level"); v != "" {
		level, err := config.LogLevelFromString(v)
		if err != nil {
			return nil, err
		}
		cfg.Logging.Level = level
	}
	if v := cmd.String("log-format"); v != "" {
		format, err := config.LogFormatFromString(v)
		if err != nil {
			return nil, err
		}
		cfg.Logging.Format = format
	}
	if v := cmd.String("log-output"); v != "" {
		cfg.Logging.Output = v
	}
	if cmd.Bool("reset-mocks") {
		cfg.Modules.ResetMocks = true
	}
	if cmd.Args().Len() > 0 {
		cfg.Run.Files = cmd.Args().Slice()
	}

	if len(cfg.Run.Files) == 0 {
		return nil, fmt.Errorf("no test files given (pass them as arguments or set run.files)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watch runs the worker under a supervisor, which reruns it on SIGHUP and
// stops it on SIGINT or SIGTERM.
func watch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	worker, err := runner.New(cfg,
		runner.WithLogger(logger.With("component", "worker")),
		runner.WithContext(ctx),
		runner.WithReportHandler(func(r *runner.Report) {
			fmt.Println(r)
		}),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create worker: %w", err), 1)
	}

	super, err := supervisor.New(
		supervisor.WithRunnables(worker),
		supervisor.WithLogHandler(logger.Handler()),
		supervisor.WithContext(ctx),
	)
	if err != nil {
		return cli.Exit(fmt.Errorf("failed to create supervisor: %w", err), 1)
	}
	if err := super.Run(); err != nil {
		return cli.Exit(fmt.Errorf("failed to run worker: %w", err), 1)
	}

	logger.Info("Worker shutdown complete")
	return nil
}

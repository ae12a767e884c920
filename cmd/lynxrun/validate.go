package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/urfave/cli/v3"
)

var validateCmd = &cli.Command{
	Name:    "validate",
	Aliases: []string{"lint"},
	Usage:   "Validate a configuration file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "Show detailed tree view of the validated configuration",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
		},
	},
	Suggest: true,
	Action:  validateAction,
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return fmt.Errorf(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
			)
		}
		configPath = cmd.Args().Get(0)
	}
	return validateLocal(ctx, configPath, cmd.Bool("tree"))
}

// renderConfigSummary lists the settings that decide what a rerun cycle evicts.
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	fmt.Fprintf(&summary, "- Path: %s\n", path)
	fmt.Fprintf(&summary, "- Version: %s\n", cfg.Version)
	fmt.Fprintf(&summary, "- Environment: %s\n", cfg.Worker.Environment)
	fmt.Fprintf(&summary, "- Root: %s\n", cfg.Run.Root)
	fmt.Fprintf(&summary, "- Files: %d\n", len(cfg.Run.Files))
	fmt.Fprintf(&summary, "- Mock prefix: %q (reset between runs: %t)\n", cfg.Modules.MockPrefix, cfg.Modules.ResetMocks)
	fmt.Fprintf(&summary, "- Protected: %d patterns, %d globs\n",
		len(cfg.Modules.ProtectPatterns), len(cfg.Modules.ProtectGlobs))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}

func validateLocal(_ context.Context, configPath string, treeView bool) error {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fmt.Printf("Configuration file %s is valid\n", configPath)

	if treeView {
		fmt.Println(cfg)
		return nil
	}

	fmt.Println(renderConfigSummary(configPath, cfg))
	return nil
}

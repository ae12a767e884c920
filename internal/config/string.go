package config

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/lynxrun/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Lynxrun Config (%s)", cfg.Version)))

	loggingTree := fancy.Tree().Root("Logging")
	loggingTree.Child(fmt.Sprintf("Format: %s", cfg.Logging.Format))
	loggingTree.Child(fmt.Sprintf("Level: %s", cfg.Logging.Level))
	loggingTree.Child(fmt.Sprintf("Output: %s", cfg.Logging.Output))
	t.Child(loggingTree)

	workerTree := fancy.Tree().Root("Worker")
	workerTree.Child("Environment: " + fancy.EnvironmentText(cfg.Worker.Environment))
	workerTree.Child(fmt.Sprintf("Title: %s", cfg.DisplayTitle()))
	t.Child(workerTree)

	modulesTree := fancy.Tree().Root("Modules")
	modulesTree.Child(fmt.Sprintf("Reset mocks: %t", cfg.Modules.ResetMocks))
	modulesTree.Child(fmt.Sprintf("Mock prefix: %s", cfg.Modules.MockPrefix))
	modulesTree.Child(fmt.Sprintf("Timeout: %s", cfg.Modules.Timeout))
	if len(cfg.Modules.ProtectPatterns) > 0 {
		modulesTree.Child("Protect patterns: " + strings.Join(cfg.Modules.ProtectPatterns, ", "))
	}
	if len(cfg.Modules.ProtectGlobs) > 0 {
		modulesTree.Child("Protect globs: " + strings.Join(cfg.Modules.ProtectGlobs, ", "))
	}
	t.Child(modulesTree)

	runTree := fancy.BranchNode("Run", fancy.CountText(fmt.Sprintf("(%d files)", len(cfg.Run.Files))))
	runTree.Child(fmt.Sprintf("Root: %s", fancy.PathText(cfg.Run.Root)))
	for _, f := range cfg.Run.Files {
		runTree.Child(fancy.PathText(f))
	}
	t.Child(runTree)

	return t.String()
}

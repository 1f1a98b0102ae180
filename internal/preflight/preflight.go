package preflight

import (
	"context"

	"soundshield/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDiskSpace("Staging disk space", cfg.Paths.StagingDir, minimumFreeBytes),
		CheckRuntime(cfg),
	}

	if cfg.Watch.Enabled {
		results = append(results, CheckDirectoryAccess("Watch mount root", cfg.Watch.MountRoot))
	}

	return results
}

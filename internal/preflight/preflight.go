package preflight

import (
	"context"
	"fmt"
	"path/filepath"

	"ffjob/internal/config"
	"ffjob/internal/job"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the environment checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := DirectoryChecks(cfg)
	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available || status.Optional, Detail: status.Command}
		switch {
		case status.Available && status.Version != "":
			result.Detail = fmt.Sprintf("%s (version %s)", status.Command, status.Version)
		case status.Detail != "":
			result.Detail = fmt.Sprintf("%s (%s)", status.Command, status.Detail)
		}
		results = append(results, result)
	}

	return results
}

// DirectoryChecks verifies the directories ffjob writes to.
func DirectoryChecks(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	// The option-set database usually lives in the state directory; only
	// check its parent separately when it was moved elsewhere.
	if dbDir := filepath.Dir(cfg.OptionSets.DBPath); cfg.OptionSets.DBPath != "" && dbDir != filepath.Clean(cfg.Paths.StateDir) {
		results = append(results, CheckDirectoryAccess("Option set directory", dbDir))
	}
	return results
}

// CheckJob verifies every local source is readable and the output location
// is writable.
func CheckJob(j job.EncodeJob) []Result {
	results := make([]Result, 0, len(j.Sources)+1)
	for i, source := range j.Sources {
		results = append(results, CheckInputFile(fmt.Sprintf("Source %d", i), source))
	}
	results = append(results, CheckOutputPath("Output", j.OutputFile, j.Overwrite))
	return results
}

// FirstFailure returns the first failing result, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}

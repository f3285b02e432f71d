package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ffjob/internal/preflight"
)

type statusCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ffmpeg, ffprobe and directory readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if asJSON {
				results := preflight.RunAll(cmd.Context(), cfg)
				checks := make([]statusCheck, 0, len(results))
				for _, r := range results {
					checks = append(checks, statusCheck(r))
				}
				return writeJSON(cmd, map[string]any{
					"config_path":   ctx.configPath,
					"config_exists": ctx.configExists,
					"checks":        checks,
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			configMessage := ctx.configPath
			configKind := statusOK
			if !ctx.configExists {
				configMessage = fmt.Sprintf("%s (not found, using defaults)", ctx.configPath)
				configKind = statusInfo
			}

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines, renderStatusLine("Config", configKind, configMessage, colorize))
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			lines = append(lines, dependencyLines(statuses, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			dirs := preflight.DirectoryChecks(cfg)
			lines = append(lines, checkLines(dirs, colorize)...)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			for _, status := range statuses {
				if !status.Available && !status.Optional {
					return errors.New("required dependencies are missing")
				}
			}
			if _, failed := preflight.FirstFailure(dirs); failed {
				return errors.New("directory checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"ffjob/internal/config"
	"ffjob/internal/encoding"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		progress   bool
		noProgress bool
		verbose    bool
		dryRun     bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run JOB",
		Short: "Run ffmpeg for a job document",
		Long: `Validate a job document, verify its stream selections with ffprobe and run
the assembled ffmpeg command. Exit status follows ffmpeg's on failure.
Use - to read the job document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			j, err := loadJob(cmd, args[0])
			if err != nil {
				return err
			}
			resolver := ctx.newStoreResolver()
			defer resolver.Close()
			runner, err := ctx.newRunner(cmd, resolver)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			result, err := runner.Run(cmd.Context(), j, encoding.RunOptions{
				Progress:       progressEnabled(cfg.Encoding.Progress, progress, noProgress, stderr),
				Verbose:        verbose,
				DryRun:         dryRun,
				ProgressWriter: stderr,
				Timeout:        timeout,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				fmt.Fprintln(out, result.Invocation.String())
				return nil
			}
			fmt.Fprintf(out, "Wrote %s in %s\n", j.OutputFile, result.Elapsed.Round(100*time.Millisecond))
			if result.Progress.Frame > 0 {
				fmt.Fprintf(out, "Frames: %d\n", result.Progress.Frame)
			}
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}
			if result.TranscriptPath != "" {
				fmt.Fprintf(out, "Transcript: %s\n", result.TranscriptPath)
			}
			fmt.Fprintf(out, "Run ID: %s\n", result.RunID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "Always draw the progress bar")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Never draw the progress bar")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every ffmpeg stderr line")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the command without running it")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort ffmpeg after this long (overrides encoding.timeout_seconds)")
	cmd.MarkFlagsMutuallyExclusive("progress", "no-progress")
	return cmd
}

// progressEnabled applies the flags over the configured mode; auto draws only
// on a terminal.
func progressEnabled(mode string, force, disable bool, w io.Writer) bool {
	switch {
	case disable:
		return false
	case force:
		return true
	}
	switch mode {
	case config.ProgressAlways:
		return true
	case config.ProgressNever:
		return false
	default:
		return shouldColorize(w)
	}
}

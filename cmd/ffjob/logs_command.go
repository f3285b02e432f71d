package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ffjob/internal/logging"
	"ffjob/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		list   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "logs [RUN_ID]",
		Short: "Show the ffjob log or a run transcript",
		Long: `Without arguments, print the tail of the ffjob log file. With a run ID (or a
unique prefix of one), print that run's ffmpeg transcript. Use "latest" for the
most recent transcript and --list to see all of them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				transcripts, err := logs.ListTranscripts(cfg.TranscriptDir())
				if err != nil {
					return err
				}
				if asJSON {
					if transcripts == nil {
						transcripts = []logs.Transcript{}
					}
					return writeJSON(cmd, transcripts)
				}
				if len(transcripts) == 0 {
					fmt.Fprintln(out, "No run transcripts")
					return nil
				}
				rows := make([][]string, 0, len(transcripts))
				for _, t := range transcripts {
					rows = append(rows, []string{
						t.RunID,
						t.Started.Format("2006-01-02 15:04:05"),
						humanBytes(t.Size),
						filepath.Base(t.Path),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Run ID", "Started", "Size", "File"}, rows, 2))
				return nil
			}

			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			if len(args) == 1 {
				runID := args[0]
				if runID == "latest" {
					runID = ""
				}
				t, err := logs.FindTranscript(cfg.TranscriptDir(), runID)
				if err != nil {
					return err
				}
				path = t.Path
			}

			tail, offset, err := logs.Tail(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, logs.DefaultPollInterval, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are appended")
	cmd.Flags().BoolVar(&list, "list", false, "List run transcripts instead of printing one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "With --list, output JSON")
	cmd.MarkFlagsMutuallyExclusive("list", "follow")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ffjob/internal/ffmpeg"
	"ffjob/internal/job"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var printSchema bool

	cmd := &cobra.Command{
		Use:   "validate [JOB]",
		Short: "Validate a job document and summarize it",
		Long: `Check a job document against the job schema and the model rules, resolve
its option sets and print what it maps. Nothing is executed.
Use - to read the job document from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if printSchema {
				fmt.Fprint(out, job.SchemaJSON())
				return nil
			}
			if len(args) == 0 {
				return errors.New("job document path required (or pass --print-schema)")
			}
			j, err := loadJob(cmd, args[0])
			if err != nil {
				return err
			}
			resolver := ctx.newStoreResolver()
			defer resolver.Close()
			resolved, err := job.ResolveOptionSets(cmd.Context(), j, resolver)
			if err != nil {
				return err
			}
			if _, err := ffmpeg.Assemble(resolved); err != nil {
				return err
			}
			fmt.Fprint(out, renderJobSummary(j, resolved))
			fmt.Fprintln(out, "Job valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "Print the job document JSON Schema and exit")
	return cmd
}

// renderJobSummary tabulates sources, stream maps and per-stream options.
// original keeps option-set names; resolved supplies their options.
func renderJobSummary(original, resolved job.EncodeJob) string {
	var b strings.Builder

	sourceRows := make([][]string, 0, len(resolved.Sources))
	for i, source := range resolved.Sources {
		sourceRows = append(sourceRows, []string{strconv.Itoa(i), source})
	}
	b.WriteString(renderTable([]string{"#", "Source"}, sourceRows, 0))
	b.WriteString("\n")

	mapRows := make([][]string, 0, len(resolved.SourceMaps))
	for i, sm := range resolved.SourceMaps {
		mapRows = append(mapRows, []string{strconv.Itoa(i), ffmpeg.MapSelector(sm), yesNo(sm.Optional)})
	}
	b.WriteString(renderTable([]string{"#", "Map", "Optional"}, mapRows, 0))
	b.WriteString("\n")

	if len(resolved.OutputMaps) > 0 {
		outRows := make([][]string, 0, len(resolved.OutputMaps))
		for i, om := range resolved.OutputMaps {
			origin := "inline"
			if i < len(original.OutputMaps) && original.OutputMaps[i].HasOptionSet() {
				origin = "set " + original.OutputMaps[i].OptionSet
			}
			tokens, err := ffmpeg.OutputArgs(om)
			flags := strings.Join(tokens, " ")
			if err != nil {
				flags = err.Error()
			}
			outRows = append(outRows, []string{strconv.Itoa(i), strings.TrimPrefix(ffmpeg.StreamSuffix(om.Specifier, om.Stream), ":"), origin, flags})
		}
		b.WriteString(renderTable([]string{"#", "Output", "From", "Flags"}, outRows))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Output: %s (overwrite: %s)\n", resolved.OutputFile, yesNo(resolved.Overwrite))
	if tokens := ffmpeg.InputOptionArgs(resolved.InputOptions); len(tokens) > 0 {
		fmt.Fprintf(&b, "Input options: %s\n", strings.Join(tokens, " "))
	}
	return b.String()
}

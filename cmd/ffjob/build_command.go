package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type buildOutput struct {
	Binary       string   `json:"binary"`
	RuntimeFlags []string `json:"runtime_flags"`
	Args         []string `json:"args"`
	Command      string   `json:"command"`
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "build JOB",
		Short: "Print the ffmpeg command for a job document",
		Long: `Validate a job document and print the ffmpeg command it assembles to,
without running it. Named option sets are resolved from the option-set store.
Use - to read the job document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			inv, err := runner.Invocation(cmd.Context(), j)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, buildOutput{
					Binary:       inv.Binary,
					RuntimeFlags: append([]string{}, inv.Preamble...),
					Args:         inv.Args,
					Command:      inv.String(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), inv.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the token list as JSON")
	return cmd
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ffjob/internal/config"
	"ffjob/internal/job"
	"ffjob/internal/optionset"
	"ffjob/internal/services"
)

func newOptionSetCommand(ctx *commandContext) *cobra.Command {
	setCmd := &cobra.Command{
		Use:     "optionset",
		Aliases: []string{"optionsets", "sets"},
		Short:   "Manage named option sets referenced by job documents",
	}

	setCmd.AddCommand(newOptionSetListCommand(ctx))
	setCmd.AddCommand(newOptionSetShowCommand(ctx))
	setCmd.AddCommand(newOptionSetPutCommand(ctx))
	setCmd.AddCommand(newOptionSetDeleteCommand(ctx))

	return setCmd
}

func newOptionSetListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored option sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store *optionset.Store) error {
				sets, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if sets == nil {
						sets = []*optionset.Set{}
					}
					return writeJSON(cmd, sets)
				}
				out := cmd.OutOrStdout()
				if len(sets) == 0 {
					fmt.Fprintln(out, "No option sets stored")
					return nil
				}
				rows := make([][]string, 0, len(sets))
				for _, set := range sets {
					rows = append(rows, []string{
						set.Name,
						valueOrDash(set.Description),
						compactOptions(set.Options),
						set.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Name", "Description", "Options", "Updated"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newOptionSetShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show one option set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store *optionset.Store) error {
				set, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, set)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:        %s\n", set.Name)
				fmt.Fprintf(out, "Description: %s\n", valueOrDash(set.Description))
				fmt.Fprintf(out, "Created:     %s\n", set.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Updated:     %s\n", set.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				pretty, err := json.MarshalIndent(set.Options, "", "  ")
				if err != nil {
					return fmt.Errorf("encode options: %w", err)
				}
				fmt.Fprintf(out, "Options:\n%s\n", pretty)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newOptionSetPutCommand(ctx *commandContext) *cobra.Command {
	var (
		filePath    string
		inline      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "put NAME",
		Short: "Create or replace an option set",
		Long: `Store a named option set. Options are a JSON object in the same shape as an
output map's "options", read from --file (use - for stdin) or --options.`,
		Example: `  ffjob optionset put hevc-archive --options '{"codec":"libx265","crf":"20","x265-params":{"aq-mode":"3"}}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readOptionsInput(cmd, filePath, inline)
			if err != nil {
				return err
			}
			opts, err := job.ParseOptions(raw)
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), func(store *optionset.Store) error {
				set, err := store.Put(cmd.Context(), optionset.Set{
					Name:        args[0],
					Description: description,
					Options:     opts,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored option set %s (%d options)\n", set.Name, len(set.Options))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Read options JSON from a file (- for stdin)")
	cmd.Flags().StringVar(&inline, "options", "", "Options JSON object")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Human-readable description")
	cmd.MarkFlagsMutuallyExclusive("file", "options")
	cmd.MarkFlagsOneRequired("file", "options")
	return cmd
}

func newOptionSetDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete an option set",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store *optionset.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted option set %s\n", strings.TrimSpace(args[0]))
				return nil
			})
		},
	}
}

func readOptionsInput(cmd *cobra.Command, filePath, inline string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return nil, fmt.Errorf("%w: provide --file or --options", services.ErrConfiguration)
	}
	if filePath == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read options from stdin: %w", err)
		}
		return data, nil
	}
	expanded, err := config.ExpandPath(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: options file %s does not exist", services.ErrConfiguration, expanded)
		}
		return nil, fmt.Errorf("read options file: %w", err)
	}
	return data, nil
}

// compactOptions renders options as single-line JSON for tables.
func compactOptions(opts job.Options) string {
	data, err := json.Marshal(opts)
	if err != nil {
		return "-"
	}
	return string(data)
}

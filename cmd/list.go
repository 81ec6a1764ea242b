package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"speccheck/internal/output"
	"speccheck/internal/runner"
	"speccheck/internal/tier"
)

var listCmd = &cobra.Command{
	Use:     "list [paths...]",
	Aliases: []string{"ls"},
	Short:   "List discovered components",
	Long: `Lists every spec-bearing component under the given paths with its
declared and inferred tiers and whether a source and mock file exist.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	r := runner.New(cfg, runner.Options{Tier: tier.Unknown, Root: paths[0]})
	entries, err := r.List(cmd.Context(), paths)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		output.ListCompact(os.Stdout, entries)
	default:
		output.ListTable(os.Stdout, entries)
	}
	return nil
}

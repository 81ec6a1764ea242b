package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"speccheck/internal/clierr"
	"speccheck/internal/output"
	"speccheck/internal/runner"
	"speccheck/internal/tier"
	"speccheck/internal/watcher"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check components against their specs",
	Long: `Discovers every component under the given paths (default: the current
directory) and checks each one: import tier classification, spec/code prop
and state agreement, mock strategy, and required spec sections.

Exit codes: 0 clean or soft-only findings, 1 hard violations, 2 when
nothing could be analyzed.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("tier", "", "only check components declaring this tier (0-6)")
	checkCmd.Flags().String("severity", "hard", "exit-code policy: hard or all")
	checkCmd.Flags().Int("jobs", 0, "number of parallel workers (default GOMAXPROCS)")
	checkCmd.Flags().Bool("watch", false, "re-run on file changes")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tierFilter := tier.Unknown
	if s, _ := cmd.Flags().GetString("tier"); s != "" {
		tierFilter, err = tier.Parse(s)
		if err != nil {
			return err
		}
	}

	severity, _ := cmd.Flags().GetString("severity")
	if severity != "hard" && severity != "all" {
		return clierr.Newf(clierr.InvalidSeverity, "invalid severity %q (expected hard or all)", severity)
	}
	severityAll := severity == "all"

	jobs, _ := cmd.Flags().GetInt("jobs")

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	r := runner.New(cfg, runner.Options{Jobs: jobs, Tier: tierFilter, Root: paths[0]})

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return runCheckWatch(cmd.Context(), r, paths)
	}

	report, err := r.Check(cmd.Context(), paths)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		if err := output.JSON(os.Stdout, report); err != nil {
			return err
		}
	case output.FormatCompact:
		output.ReportCompact(os.Stdout, report)
	default:
		output.ReportTable(os.Stdout, report)
	}

	if code := report.ExitCode(severityAll); code != 0 {
		return &clierr.SilentError{Code: code}
	}
	return nil
}

// runCheckWatch re-runs the checks whenever a watched file changes. Watch
// mode renders tables and never exits non-zero for violations; it ends on
// interrupt.
func runCheckWatch(ctx context.Context, r *runner.Runner, paths []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	render := func() {
		report, err := r.Check(ctx, paths)
		if err != nil {
			output.Messagef(os.Stderr, "Error: %v", err)
			return
		}
		output.ReportTable(os.Stdout, report)
	}
	render()

	w, err := watcher.New(paths, render)
	if err != nil {
		return err
	}
	defer w.Close()

	output.Messagef(os.Stderr, "Watching for changes. Press Ctrl+C to stop.")
	w.Run(ctx, func(err error) {
		output.Messagef(os.Stderr, "Watch error: %v", err)
	})
	return nil
}

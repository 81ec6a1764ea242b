package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"speccheck/internal/runner"
	"speccheck/internal/tier"
	"speccheck/internal/tui"
	"speccheck/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [paths...]",
	Short: "Open the interactive violation browser",
	Long: `Launches the interactive terminal UI for browsing conformance results.
The report live-reloads when spec or source files change on disk.

Navigate with arrow keys or vim-style j/k, press ? for help.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	r := runner.New(cfg, runner.Options{Tier: tier.Unknown, Root: paths[0]})
	model := tui.NewBrowser(func() (*runner.Report, error) {
		return r.Check(context.Background(), paths)
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go startTUIWatcher(ctx, paths, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, paths []string, p *tea.Program) {
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margo/internal/adapters/driven/analysis"
	"github.com/margin-labs/margo/internal/adapters/driving/watch"
	"github.com/margin-labs/margo/internal/core/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Analyse a file as another editor saves it",
	Long: `Watches FILE and runs analysis after every save, printing
suggestions to stdout as they arrive:

  draft.md:12: vary sentence length; split this paragraph

Use this to keep margo's margin while writing in your own editor.
Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	client := analysis.NewClient(analysis.Config{
		Endpoint: settings.Analysis.Endpoint,
		Timeout:  settings.Analysis.Timeout,
	})

	view := watch.NewFileView(path, string(data), cmd.OutOrStdout())
	checker := services.NewChecker(view, client, settings.Editor)

	watcher, err := watch.NewWatcher(checker, view, watch.Config{Path: path})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watcher.Run(ctx)
}

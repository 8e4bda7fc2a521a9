package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/margin-labs/margo/internal/adapters/driven/analysis"
	"github.com/margin-labs/margo/internal/adapters/driving/tui"
	"github.com/margin-labs/margo/internal/core/services"
)

var editCmd = &cobra.Command{
	Use:   "edit FILE",
	Short: "Edit a markdown file with the live analysis margin",
	Long: `Opens FILE in the margo editor. A missing file starts empty and is
created on the first save.

While you write, changed paragraphs are analysed after a short quiet
period and suggestions appear in the margin. Ctrl+S saves, Ctrl+G
toggles the margin, Ctrl+C quits.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, args []string) error {
	path := args[0]

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("edit needs an interactive terminal")
	}

	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	text, err := readDocument(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	client := analysis.NewClient(analysis.Config{
		Endpoint: settings.Analysis.Endpoint,
		Timeout:  settings.Analysis.Timeout,
	})

	buffer := tui.NewDocBuffer(text)
	checker := services.NewChecker(buffer, client, settings.Editor)

	app, err := tui.NewApp(tui.NewPorts(checker), buffer, path)
	if err != nil {
		return fmt.Errorf("starting editor: %w", err)
	}

	return app.Run()
}

// readDocument loads the file, treating a missing file as empty so
// editing a new document works.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

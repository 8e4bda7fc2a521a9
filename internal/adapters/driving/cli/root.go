// Package cli implements margo's command line interface.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driving"
	"github.com/margin-labs/margo/internal/logger"
)

// version is the margo version, overridden at build time via ldflags.
var version = "dev"

// settingsService is injected from main before Execute.
var settingsService driving.SettingsService

var (
	verbose      bool
	endpointFlag string
)

var rootCmd = &cobra.Command{
	Use:   "margo",
	Short: "Margin notes for your prose as you write it",
	Long: `margo is a markdown editor with a live analysis margin.

While you write, changed paragraphs are sent to an analysis service
after a short quiet period, and its suggestions appear in the margin
beside your text. Fenced code blocks and inline code are left alone.

Point margo at an analysis service with --endpoint or the config file
(~/.margo/config.toml), or run a local stand-in with "margo stub".`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "analysis service endpoint (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetSettingsService injects the settings service used by commands.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// resolveSettings loads settings and applies the --endpoint override.
func resolveSettings() (domain.Settings, error) {
	if settingsService == nil {
		return domain.Settings{}, errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	resolved := *settings
	if endpointFlag != "" {
		resolved.Analysis.Endpoint = strings.TrimRight(endpointFlag, "/")
	}
	return resolved, nil
}

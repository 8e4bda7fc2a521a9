// Command margo is a markdown editor with a live analysis margin.
package main

import (
	"fmt"
	"os"

	"github.com/margin-labs/margo/internal/adapters/driven/config/file"
	"github.com/margin-labs/margo/internal/adapters/driven/storage/memory"
	"github.com/margin-labs/margo/internal/adapters/driving/cli"
	"github.com/margin-labs/margo/internal/core/ports/driven"
	"github.com/margin-labs/margo/internal/core/services"
	"github.com/margin-labs/margo/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configStore driven.ConfigStore

	fileStore, err := file.NewConfigStore("")
	if err != nil {
		// A read-only home still gets a working editor, settings
		// just won't survive the session.
		logger.Warn("config directory unavailable, settings will not persist: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}

	cli.SetSettingsService(services.NewSettingsService(configStore))

	return cli.Execute()
}

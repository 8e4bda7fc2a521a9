package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margo/internal/stubservice"
)

var stubPort int

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local stub analysis service",
	Long: `Runs an analysis service that returns fixed values for every
paragraph. Useful for trying margo without a real service:

  margo stub &
  margo edit draft.md

The stub answers POST /paragraph/analyze on the given port. Stop it
with Ctrl+C.`,
	RunE: runStub,
}

func init() {
	stubCmd.Flags().IntVar(&stubPort, "port", 5000, "port to listen on")
	rootCmd.AddCommand(stubCmd)
}

func runStub(cmd *cobra.Command, _ []string) error {
	server := stubservice.NewServer(stubPort)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting stub service: %w", err)
	}

	cmd.Printf("stub analysis service listening on %s\n", server.Endpoint())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		return server.Stop()
	case err := <-server.Err():
		return err
	}
}

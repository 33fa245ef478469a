package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <folder>",
	Short: "Extract, enrich and index every supported document under a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	serveMetrics(app)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	folder := args[0]
	start := time.Now()
	count, err := app.Builder.Build(ctx, folder)
	app.Metrics.RecordBuild("docqa", count, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d units from %s in %s\n",
		count, folder, time.Since(start).Round(time.Second))
	return nil
}

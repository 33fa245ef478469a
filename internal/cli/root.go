package cli

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kirillkom/docqa/internal/bootstrap"
	"github.com/kirillkom/docqa/internal/config"
)

var (
	flagIndexDir    string
	flagTopK        int
	flagMetricsAddr string
)

var rootCmd = &cobra.Command{
	Use:           "docqa",
	Short:         "Index a folder of documents and answer questions about them",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagIndexDir, "index-dir", "", "Index directory (overrides configuration)")
	rootCmd.PersistentFlags().IntVar(&flagTopK, "top-k", 0, "Number of units to retrieve per question (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address (overrides configuration)")
}

func Execute() error {
	return rootCmd.Execute()
}

// newApp loads configuration, applies flag overrides and wires the
// application graph.
func newApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("index-dir") {
		cfg.IndexDir = flagIndexDir
	}
	if flags.Changed("top-k") {
		cfg.TopK = flagTopK
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetricsAddr
	}

	return bootstrap.New(cfg)
}

// serveMetrics exposes the metrics endpoint for the lifetime of the command
// when an address is configured. Commands are short-lived so there is no
// shutdown handling beyond process exit.
func serveMetrics(app *bootstrap.App) {
	if app.Config.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	go func() {
		if err := http.ListenAndServe(app.Config.MetricsAddr, mux); err != nil {
			app.Logger.Error("metrics_listener_failed",
				"addr", app.Config.MetricsAddr,
				"error", err,
			)
		}
	}()
	app.Logger.Info("metrics_listening", slog.String("addr", app.Config.MetricsAddr))
}

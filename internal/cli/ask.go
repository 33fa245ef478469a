package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/render"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question against the current index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	serveMetrics(app)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	question := strings.Join(args, " ")
	start := time.Now()
	answer, err := app.Answerer.Answer(ctx, question, nil)
	hits := 0
	if answer != nil {
		hits = len(answer.Sources)
	}
	app.Metrics.RecordQuery("docqa", hits, time.Since(start), err)
	if err != nil {
		if domain.IsKind(err, domain.ErrIndexNotFound) {
			return fmt.Errorf("no index found in %s, run 'docqa build <folder>' first", app.Config.IndexDir)
		}
		return fmt.Errorf("answer question: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, answer.Text)
	writeSources(out, answer.Sources)
	return nil
}

// writeSources prints the provenance of every retrieved unit, one block per
// source, with long summaries truncated for readability.
func writeSources(out io.Writer, sources []domain.SourceAttribution) {
	fmt.Fprintln(out)
	if len(sources) == 0 {
		fmt.Fprintln(out, "No metadata available for retrieved context.")
		return
	}

	fmt.Fprintln(out, "Retrieved context:")
	for _, src := range sources {
		fmt.Fprintf(out, "- File: %s\n", src.FileName)
		fmt.Fprintf(out, "  Folder: %s\n", src.FolderName)
		fmt.Fprintf(out, "  Path: %s\n", src.FolderPath)
		fmt.Fprintf(out, "  Page: %s\n", render.PageLabel(src.PageNumber))
		fmt.Fprintf(out, "  Summary: %s\n", render.PreviewText(src.Summary, render.SummaryPreviewChars))
		fmt.Fprintf(out, "  Entities: %s\n", src.Entities)
	}
}

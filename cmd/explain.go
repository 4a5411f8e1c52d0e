package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/otel"
	"github.com/promptdeck/promptdeck/internal/report"
	"github.com/promptdeck/promptdeck/internal/summarize"
)

var explainCmd = &cobra.Command{
	Use:   "explain <run-id> <run-id> [run-id]",
	Short: "Compare runs and narrate the result with an LLM",
	Long: `Compare two or three runs, then ask an LLM to explain the movement:
which metrics moved, which configuration changes most likely caused it,
and which regressions need attention.

The comparison itself is deterministic; only the narrative comes from the
model.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		summarizer, err := getSummarizer(cfg)
		if err != nil {
			return err
		}

		tel, err := otel.Init(ctx, otel.OTELConfig{Endpoint: cfg.OTELEndpoint, Headers: cfg.OTELHeaders})
		if err != nil {
			return err
		}
		defer tel.Shutdown(ctx)

		result, err := runComparison(cfg, args)
		if err != nil {
			return err
		}
		tel.Metrics.RecordComparison(ctx, len(result.Runs), result.Summary.RegressedTests)
		tel.Metrics.RecordHistoryLoads(ctx, len(result.Runs))

		report.Write(os.Stdout, result, report.Options{Theme: cfg.Theme, NoColor: cfg.NoColor})

		explanation, err := summarizer.Summarize(ctx, summarize.Digest(result))
		if err != nil {
			return fmt.Errorf("summarization failed: %w", err)
		}
		tel.Metrics.RecordTokens(ctx, summarizer.Provider(), summarizer.Model(),
			explanation.InputTokens, explanation.OutputTokens)

		fmt.Printf("\n--- Analysis (%s/%s) ---\n\n%s\n", summarizer.Provider(), summarizer.Model(), explanation.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

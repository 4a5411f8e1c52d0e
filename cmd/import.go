package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/otel"
)

var (
	flagImportProjectName string
	flagImportProjectFile string
	flagImportTimestamp   string
)

var importCmd = &cobra.Command{
	Use:   "import <results.json>",
	Short: "Import an eval result document into the history",
	Long: `Import the JSON result document produced by the eval tool as a new
history record. Summary stats are computed from the per-test results.

The document may be either the tool's full output object ({"results": [...]})
or a bare array of per-test results. Pass --project to attach the project
configuration snapshot (providers, prompts, dataset, assertions) so config
drift can be detected when comparing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(cfg)
		if err != nil {
			return err
		}

		tel, err := otel.Init(ctx, otel.OTELConfig{Endpoint: cfg.OTELEndpoint, Headers: cfg.OTELHeaders})
		if err != nil {
			return err
		}
		defer tel.Shutdown(ctx)

		doc, err := readResultsFile(args[0])
		if err != nil {
			return err
		}
		if len(doc.Results) == 0 {
			fmt.Fprintln(os.Stderr, "warning: result document contains no tests")
		}

		record := model.HistoryRecord{
			ProjectName: flagImportProjectName,
			Results:     doc,
			Stats:       model.CalculateStats(doc.Results),
		}

		if flagImportProjectFile != "" {
			data, err := os.ReadFile(flagImportProjectFile)
			if err != nil {
				return fmt.Errorf("reading project file: %w", err)
			}
			if err := json.Unmarshal(data, &record.Project); err != nil {
				return fmt.Errorf("parsing project file %s: %w", flagImportProjectFile, err)
			}
		}

		if flagImportTimestamp != "" {
			ts, err := time.Parse(time.RFC3339, flagImportTimestamp)
			if err != nil {
				return fmt.Errorf("invalid --timestamp %q (want RFC 3339): %w", flagImportTimestamp, err)
			}
			record.Timestamp = ts
		}

		record, err = store.Save(record)
		if err != nil {
			return err
		}
		tel.Metrics.RecordHistorySave(ctx)

		fmt.Printf("imported %s (%d tests, %d passed)\n",
			record.ID, record.Stats.TotalTests, record.Stats.Passed)
		return nil
	},
}

// readResultsFile decodes an eval result document, accepting both the full
// output object and a bare per-test array.
func readResultsFile(path string) (model.ResultsDocument, error) {
	var doc model.ResultsDocument

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("reading results file: %w", err)
	}

	if err := json.Unmarshal(data, &doc); err == nil && doc.Results != nil {
		return doc, nil
	}

	var results []model.TestResult
	if err := json.Unmarshal(data, &results); err != nil {
		return doc, fmt.Errorf("parsing results file %s: %w", path, err)
	}
	doc.Results = results
	return doc, nil
}

func init() {
	importCmd.Flags().StringVar(&flagImportProjectName, "project-name", "", "project display name for the record")
	importCmd.Flags().StringVar(&flagImportProjectFile, "project", "", "path to a project config snapshot (JSON)")
	importCmd.Flags().StringVar(&flagImportTimestamp, "timestamp", "", "override the run timestamp (RFC 3339; default: now)")
	rootCmd.AddCommand(importCmd)
}

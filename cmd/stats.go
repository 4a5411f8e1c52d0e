package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats <results.json>",
	Short: "Compute summary stats for an eval result document",
	Long: `Compute the summary statistics (test count, pass/fail counts, average
score, total cost, total latency) for a result document without importing
it. Missing fields degrade to zero; the command never fails on sparse data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readResultsFile(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(model.CalculateStats(doc.Results))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

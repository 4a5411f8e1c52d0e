package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/compare"
	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/history"
	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/otel"
	"github.com/promptdeck/promptdeck/internal/report"
)

var flagCompareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare <run-id> <run-id> [run-id]",
	Short: "Compare 2–3 evaluation runs",
	Long: `Compare two or three runs from the history.

Runs are ordered by timestamp regardless of argument order. The comparison
covers metric trends (pass rate, avg score, cost, latency, token usage),
configuration drift between the earliest and latest run, and per-test
outcome classification. Run ids may be abbreviated to a unique prefix.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
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

		if flagCompareJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		report.Write(os.Stdout, result, report.Options{Theme: cfg.Theme, NoColor: cfg.NoColor})
		return nil
	},
}

// runComparison loads the named records and runs the engine with the
// configured thresholds.
func runComparison(cfg *config.Config, ids []string) (*compare.Result, error) {
	store, err := getStore(cfg)
	if err != nil {
		return nil, err
	}

	records := make([]model.HistoryRecord, 0, len(ids))
	for _, id := range ids {
		record, err := resolveRecord(store, id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return compare.RunsWithOptions(records, compareOptions(cfg))
}

// resolveRecord loads a record by exact id, falling back to a unique id
// prefix so users can paste the short ids shown by "list".
func resolveRecord(store *history.Store, id string) (model.HistoryRecord, error) {
	record, err := store.Load(id)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, history.ErrNotFound) {
		return record, err
	}

	records, listErr := store.List()
	if listErr != nil {
		return record, err
	}
	var matches []model.HistoryRecord
	for _, r := range records {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return record, err
	default:
		return record, fmt.Errorf("run id prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

func init() {
	compareCmd.Flags().BoolVar(&flagCompareJSON, "json", false, "output the raw comparison result as JSON")
	rootCmd.AddCommand(compareCmd)
}

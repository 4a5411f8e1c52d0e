// Package compare is the run-comparison analytics engine.
//
// Given 2–3 history records it computes per-metric trend series, detects
// configuration drift between the earliest and latest run, and classifies
// each matched test's outcome trajectory. The computation is pure: inputs
// are copied up front, nothing is cached or mutated, and a call either
// returns a fresh Result or fails synchronously on bad arity.
package compare

import (
	"errors"
	"fmt"
	"sort"

	"github.com/promptdeck/promptdeck/internal/model"
)

// ErrInvalidRunCount is returned when the number of runs is not 2 or 3.
// This is a contract violation by the caller, not a transient failure.
var ErrInvalidRunCount = errors.New("comparison requires exactly 2 or 3 runs")

// Result is the full comparison of 2–3 runs. It is built fresh on every
// call and holds no references back into the caller's slices.
type Result struct {
	// Runs are the input records sorted ascending by timestamp. All other
	// fields are expressed in this order.
	Runs []model.HistoryRecord `json:"runs"`
	// Metrics holds one trend series per tracked metric.
	Metrics Metrics `json:"metrics"`
	// Config describes what changed between the earliest and latest run's
	// project snapshots.
	Config ConfigDiff `json:"config"`
	// Tests classifies each test case matched across runs.
	Tests []TestComparison `json:"tests"`
	// Summary aggregates the per-test classifications.
	Summary Summary `json:"summary"`
}

// Summary counts matched tests per classification bucket.
type Summary struct {
	TotalTests      int `json:"totalTests"`
	ConsistentTests int `json:"consistentTests"`
	ImprovedTests   int `json:"improvedTests"`
	RegressedTests  int `json:"regressedTests"`
	ChangedTests    int `json:"changedTests"`
	VolatileTests   int `json:"volatileTests"`
}

// Options are the engine's tunable thresholds.
type Options struct {
	// StabilityBandPct is the relative band (in percent) within which a
	// pairwise metric movement counts as stable.
	StabilityBandPct float64
	// ScoreChangeThreshold is the score spread beyond which a test whose
	// pass/fail status is unchanged still counts as "changed".
	ScoreChangeThreshold float64
}

// DefaultOptions returns the thresholds used by Runs.
func DefaultOptions() Options {
	return Options{
		StabilityBandPct:     1.0,
		ScoreChangeThreshold: 0.1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StabilityBandPct <= 0 {
		o.StabilityBandPct = d.StabilityBandPct
	}
	if o.ScoreChangeThreshold <= 0 {
		o.ScoreChangeThreshold = d.ScoreChangeThreshold
	}
	return o
}

// Runs compares 2 or 3 history records using the default options.
func Runs(records []model.HistoryRecord) (*Result, error) {
	return RunsWithOptions(records, DefaultOptions())
}

// RunsWithOptions compares 2 or 3 history records. The input order is
// irrelevant: runs are sorted ascending by timestamp before any metric,
// config, or per-test computation.
func RunsWithOptions(records []model.HistoryRecord, opts Options) (*Result, error) {
	if len(records) < 2 || len(records) > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRunCount, len(records))
	}
	opts = opts.withDefaults()

	runs := make([]model.HistoryRecord, len(records))
	copy(runs, records)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	tests, summary := compareTests(runs, opts)

	return &Result{
		Runs:    runs,
		Metrics: computeMetrics(runs, opts),
		Config:  diffConfig(runs[0].Project, runs[len(runs)-1].Project),
		Tests:   tests,
		Summary: summary,
	}, nil
}

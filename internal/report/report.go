// Package report renders a run comparison as a styled terminal report.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/promptdeck/promptdeck/internal/compare"
)

// Options control report rendering.
type Options struct {
	// Theme selects the color scheme ("dark" or "light").
	Theme string
	// NoColor disables all styling.
	NoColor bool
}

// Write renders the comparison result to w.
func Write(w io.Writer, result *compare.Result, opts Options) {
	st := plainStyles()
	if !opts.NoColor {
		st = newStyles(ThemeByName(opts.Theme))
	}

	writeRuns(w, result, st)
	writeMetrics(w, result, st)
	writeConfigDrift(w, result, st)
	writeTestSummary(w, result, st)
}

func writeRuns(w io.Writer, result *compare.Result, st styles) {
	project := result.Runs[len(result.Runs)-1].ProjectName
	fmt.Fprintf(w, "\n%s\n\n", st.title.Render(fmt.Sprintf("=== Run Comparison: %s ===", project)))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Run\tID\tDate\tTests\tPassed\tFailed")
	for i, run := range result.Runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
			i+1, shortID(run.ID), run.Timestamp.Format("2006-01-02 15:04"),
			run.Stats.TotalTests, run.Stats.Passed, run.Stats.Failed)
	}
	tw.Flush()
}

func writeMetrics(w io.Writer, result *compare.Result, st styles) {
	fmt.Fprintf(w, "\n%s\n\n", st.title.Render("--- Metrics ---"))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Metric\tValues\tDelta\tDelta%\tTrend")

	rows := []struct {
		name   string
		series compare.MetricSeries
	}{
		{"Pass rate (%)", result.Metrics.PassRate},
		{"Avg score", result.Metrics.AvgScore},
		{"Total cost", result.Metrics.TotalCost},
		{"Avg latency (ms)", result.Metrics.AvgLatency},
		{"Token usage", result.Metrics.TokenUsage},
	}
	for _, row := range rows {
		values := make([]string, len(row.series.Values))
		for i, v := range row.series.Values {
			values[i] = fmt.Sprintf("%.4g", v)
		}
		fmt.Fprintf(tw, "%s\t%s\t%+.4g\t%+.1f%%\t%s\n",
			row.name,
			strings.Join(values, " → "),
			row.series.Delta,
			row.series.DeltaPercentage,
			trendStyle(row.series.Trend, st).Render(string(row.series.Trend)))
	}
	tw.Flush()
}

func writeConfigDrift(w io.Writer, result *compare.Result, st styles) {
	fmt.Fprintf(w, "\n%s\n\n", st.title.Render("--- Config drift (earliest vs latest) ---"))

	cfg := result.Config
	drifted := false
	if cfg.ProviderModel.Changed {
		fmt.Fprintf(w, "%s %s → %s\n",
			st.accent.Render("provider:"), cfg.ProviderModel.Before, cfg.ProviderModel.After)
		drifted = true
	}
	for _, pc := range cfg.PromptChanges {
		label := pc.Label
		if label == "" {
			label = fmt.Sprintf("#%d", pc.Index)
		}
		fmt.Fprintf(w, "%s %s text changed (%d → %d chars)\n",
			st.accent.Render("prompt:"), label, len(pc.Before), len(pc.After))
		drifted = true
	}
	if cfg.DatasetRows.Changed {
		fmt.Fprintf(w, "%s %d → %d rows", st.accent.Render("dataset:"),
			cfg.DatasetRows.BeforeRows, cfg.DatasetRows.AfterRows)
		if cfg.DatasetRows.HeadersChanged {
			fmt.Fprint(w, ", headers changed")
		}
		fmt.Fprintln(w)
		drifted = true
	}
	for _, ac := range cfg.AssertionChanges {
		fmt.Fprintf(w, "%s #%d %s\n", st.accent.Render("assertion:"), ac.Index, ac.Kind)
		drifted = true
	}
	if !drifted {
		fmt.Fprintln(w, st.muted.Render("no configuration changes"))
	}
}

func writeTestSummary(w io.Writer, result *compare.Result, st styles) {
	fmt.Fprintf(w, "\n%s\n\n", st.title.Render("--- Tests ---"))

	s := result.Summary
	fmt.Fprintf(w, "%d matched: %s, %s, %s, %s, %s\n",
		s.TotalTests,
		st.muted.Render(fmt.Sprintf("%d consistent", s.ConsistentTests)),
		st.improving.Render(fmt.Sprintf("%d improved", s.ImprovedTests)),
		st.degrading.Render(fmt.Sprintf("%d regressed", s.RegressedTests)),
		st.accent.Render(fmt.Sprintf("%d changed", s.ChangedTests)),
		st.variable.Render(fmt.Sprintf("%d volatile", s.VolatileTests)))

	for _, tc := range result.Tests {
		if tc.Status != compare.TestRegressed && tc.Status != compare.TestVolatile {
			continue
		}
		style := st.degrading
		if tc.Status == compare.TestVolatile {
			style = st.variable
		}
		fmt.Fprintf(w, "  %s %s\n", style.Render(fmt.Sprintf("[%s]", tc.Status)), varsLabel(tc))
	}
}

func trendStyle(trend compare.Trend, st styles) lipgloss.Style {
	switch trend {
	case compare.TrendImproving:
		return st.improving
	case compare.TrendDegrading:
		return st.degrading
	case compare.TrendVariable:
		return st.variable
	default:
		return st.muted
	}
}

func varsLabel(tc compare.TestComparison) string {
	if len(tc.Vars) == 0 {
		return tc.Key
	}
	parts := make([]string, 0, len(tc.Vars))
	for _, k := range sortedKeys(tc.Vars) {
		v := tc.Vars[k]
		if len(v) > 40 {
			v = v[:40] + "..."
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/promptdeck/promptdeck/internal/model"
)

// TestStatus classifies one test case's trajectory across the runs.
type TestStatus string

const (
	// TestConsistent: same pass/fail status and near-identical score everywhere.
	TestConsistent TestStatus = "consistent"
	// TestImproved: failing in an earlier run, passing in the latest.
	TestImproved TestStatus = "improved"
	// TestRegressed: passing in an earlier run, failing in the latest.
	TestRegressed TestStatus = "regressed"
	// TestChanged: pass/fail status held but the score moved materially.
	TestChanged TestStatus = "changed"
	// TestVolatile: status flipped and flipped back across 3 runs.
	TestVolatile TestStatus = "volatile"
)

// TestComparison is one test case matched across runs.
type TestComparison struct {
	// Key is the matching key: the test's dataset variable values, or a
	// row-index fallback when no vars are present.
	Key string `json:"key"`
	// Vars are the dataset variable values identifying this test.
	Vars map[string]string `json:"vars,omitempty"`
	// Outcomes holds one entry per run in which the test appeared, in
	// sorted-run order.
	Outcomes []TestOutcome `json:"outcomes"`
	Status   TestStatus    `json:"status"`
}

// TestOutcome is one run's result for a matched test.
type TestOutcome struct {
	RunID  string   `json:"runId"`
	Passed bool     `json:"passed"`
	Score  *float64 `json:"score,omitempty"`
}

type matchedTest struct {
	key      string
	vars     map[string]string
	outcomes []TestOutcome
}

// compareTests matches test cases across runs by their dataset variable
// values and classifies each trajectory. Tests appearing in fewer than two
// runs have nothing to compare against and are skipped, so runs with
// different test counts degrade gracefully instead of failing.
func compareTests(runs []model.HistoryRecord, opts Options) ([]TestComparison, Summary) {
	byKey := make(map[string]*matchedTest)
	var order []string

	for _, run := range runs {
		// Duplicate keys within one run (same row evaluated against several
		// prompts or providers) get an occurrence suffix so each instance
		// lines up with its counterpart in the other runs.
		seen := make(map[string]int)
		for idx, tr := range run.Results.Results {
			key := matchKey(tr.Vars, idx)
			if occ := seen[key]; occ > 0 {
				seen[key]++
				key = fmt.Sprintf("%s#%d", key, occ)
			} else {
				seen[key] = 1
			}

			mt, ok := byKey[key]
			if !ok {
				mt = &matchedTest{key: key, vars: tr.Vars}
				byKey[key] = mt
				order = append(order, key)
			}

			outcome := TestOutcome{RunID: run.ID, Passed: tr.Passed()}
			if score, ok := tr.ScoreValue(); ok {
				s := score
				outcome.Score = &s
			}
			mt.outcomes = append(mt.outcomes, outcome)
		}
	}

	tests := []TestComparison{}
	var summary Summary
	for _, key := range order {
		mt := byKey[key]
		if len(mt.outcomes) < 2 {
			continue
		}
		status := classifyTest(mt.outcomes, opts.ScoreChangeThreshold)
		tests = append(tests, TestComparison{
			Key:      mt.key,
			Vars:     mt.vars,
			Outcomes: mt.outcomes,
			Status:   status,
		})
		summary.TotalTests++
		switch status {
		case TestConsistent:
			summary.ConsistentTests++
		case TestImproved:
			summary.ImprovedTests++
		case TestRegressed:
			summary.RegressedTests++
		case TestChanged:
			summary.ChangedTests++
		case TestVolatile:
			summary.VolatileTests++
		}
	}
	return tests, summary
}

// matchKey canonicalizes a test's vars into a stable identity. Tests with
// no vars fall back to their row index.
func matchKey(vars map[string]string, index int) string {
	if len(vars) == 0 {
		return fmt.Sprintf("row:%d", index)
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + vars[k]
	}
	return strings.Join(parts, "\x1f")
}

func classifyTest(outcomes []TestOutcome, scoreThreshold float64) TestStatus {
	allSame := true
	for _, o := range outcomes[1:] {
		if o.Passed != outcomes[0].Passed {
			allSame = false
			break
		}
	}

	if allSame {
		if scoreSpread(outcomes) > scoreThreshold {
			return TestChanged
		}
		return TestConsistent
	}

	first := outcomes[0].Passed
	last := outcomes[len(outcomes)-1].Passed
	if first == last {
		// Status differs somewhere but the endpoints agree: a flip that
		// flipped back across 3 runs.
		return TestVolatile
	}
	if last {
		return TestImproved
	}
	return TestRegressed
}

// scoreSpread is the max-min range over the outcomes that report a score.
func scoreSpread(outcomes []TestOutcome) float64 {
	var lo, hi float64
	scored := 0
	for _, o := range outcomes {
		if o.Score == nil {
			continue
		}
		if scored == 0 || *o.Score < lo {
			lo = *o.Score
		}
		if scored == 0 || *o.Score > hi {
			hi = *o.Score
		}
		scored++
	}
	if scored < 2 {
		return 0
	}
	return hi - lo
}

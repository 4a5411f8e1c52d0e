package model

// ResultsDocument is the eval tool's raw JSON output for one run.
// All fields are optional on the wire; absent values decode to nil and
// degrade to zero in downstream computation.
type ResultsDocument struct {
	Results []TestResult  `json:"results,omitempty"`
	Stats   *ResultsStats `json:"stats,omitempty"`
}

// ResultsStats is the tool's own run-level aggregation block.
type ResultsStats struct {
	TokenUsage *TokenUsage `json:"tokenUsage,omitempty"`
}

// TokenUsage is run-level token consumption as reported by the eval tool.
type TokenUsage struct {
	Total      int64 `json:"total"`
	Prompt     int64 `json:"prompt,omitempty"`
	Completion int64 `json:"completion,omitempty"`
	Cached     int64 `json:"cached,omitempty"`
}

// TestResult is one per-test entry in the raw result document.
// Optional fields are pointers so that "absent" and "zero" stay distinct
// until defaults are applied.
type TestResult struct {
	// Vars are the dataset row values this test was rendered with.
	// They double as the identity key when matching tests across runs.
	Vars map[string]string `json:"vars,omitempty"`
	// Output is the model's response text.
	Output string `json:"output,omitempty"`
	// Success and Pass are the tool's top-level pass indicators; which one
	// is present depends on the tool version.
	Success *bool `json:"success,omitempty"`
	Pass    *bool `json:"pass,omitempty"`
	// Score is the graded score in [0.0, 1.0].
	Score *float64 `json:"score,omitempty"`
	// Cost is the per-test cost in currency units.
	Cost *float64 `json:"cost,omitempty"`
	// LatencyMs is the per-test wall-clock latency in milliseconds.
	LatencyMs *float64 `json:"latencyMs,omitempty"`
	// GradingResult is the nested grader verdict, preferred over the
	// top-level indicators when present.
	GradingResult *GradingResult `json:"gradingResult,omitempty"`
}

// GradingResult is the grader's verdict for one test.
type GradingResult struct {
	Pass   bool     `json:"pass"`
	Score  *float64 `json:"score,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// Passed reports whether the test passed. The nested grading result wins
// over the top-level success/pass indicators; a test with no indicator at
// all counts as failed.
func (r TestResult) Passed() bool {
	if r.GradingResult != nil {
		return r.GradingResult.Pass
	}
	if r.Success != nil {
		return *r.Success
	}
	if r.Pass != nil {
		return *r.Pass
	}
	return false
}

// ScoreValue returns the test's score and whether one was reported.
// The grader's score wins over the top-level score.
func (r TestResult) ScoreValue() (float64, bool) {
	if r.GradingResult != nil && r.GradingResult.Score != nil {
		return *r.GradingResult.Score, true
	}
	if r.Score != nil {
		return *r.Score, true
	}
	return 0, false
}

// TokenTotal returns the run-level total token count, 0 when the tool did
// not report token usage.
func (d ResultsDocument) TokenTotal() int64 {
	if d.Stats == nil || d.Stats.TokenUsage == nil {
		return 0
	}
	return d.Stats.TokenUsage.Total
}

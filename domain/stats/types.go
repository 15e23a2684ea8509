package stats

import (
	"cardiostat/domain/core"
)

// DefaultAlpha is the significance threshold applied to every verdict
const DefaultAlpha = 0.05

// Summary holds descriptive statistics for one numeric sample.
// INVARIANTS:
// - Count is the number of non-missing observations
// - every other field is nil when Count == 0
// - Min <= P25 <= P50 <= P75 <= Max when present
type Summary struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean,omitempty"`
	Std   *float64 `json:"std,omitempty"` // sample standard deviation, nil when Count < 2
	Min   *float64 `json:"min,omitempty"`
	P25   *float64 `json:"p25,omitempty"`
	P50   *float64 `json:"p50,omitempty"`
	P75   *float64 `json:"p75,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether the sample had no usable observations
func (s Summary) IsEmpty() bool {
	return s.Count == 0
}

// TestResult is the outcome of a Welch two-sample t-test
type TestResult struct {
	TStatistic  float64 `json:"t_statistic"`
	PValue      float64 `json:"p_value"`
	DF          float64 `json:"df"`
	NA          int     `json:"n_a"`
	NB          int     `json:"n_b"`
	MeanA       float64 `json:"mean_a"`
	MeanB       float64 `json:"mean_b"`
	Significant bool    `json:"significant"`
	// Degenerate is set when the standard error is zero (both samples constant)
	Degenerate bool `json:"degenerate,omitempty"`
}

// Verdict renders the significance verdict
func (r TestResult) Verdict() string {
	if r.Significant {
		return "significant"
	}
	return "not significant"
}

// Correction names a multiple-comparison adjustment
type Correction string

const (
	CorrectionNone       Correction = "none"
	CorrectionBonferroni Correction = "bonferroni"
	CorrectionHolm       Correction = "holm"
)

// ParseCorrection maps a config string onto a Correction; empty means none
func ParseCorrection(s string) (Correction, bool) {
	switch Correction(s) {
	case "", CorrectionNone:
		return CorrectionNone, true
	case CorrectionBonferroni:
		return CorrectionBonferroni, true
	case CorrectionHolm:
		return CorrectionHolm, true
	}
	return "", false
}

// Comparison is the per-field output of the group comparator
type Comparison struct {
	Field       core.FieldKey `json:"field_name"`
	GroupALabel string        `json:"group_a_label"`
	GroupBLabel string        `json:"group_b_label"`
	NA          int           `json:"n_a"`
	NB          int           `json:"n_b"`
	MeanA       *float64      `json:"mean_a,omitempty"`
	MeanB       *float64      `json:"mean_b,omitempty"`
	TStatistic  float64       `json:"t_statistic"`
	PValue      float64       `json:"p_value"`
	AdjustedP   *float64      `json:"adjusted_p_value,omitempty"`
	Significant bool          `json:"significant"`

	SummaryA Summary     `json:"summary_a"`
	SummaryB Summary     `json:"summary_b"`
	Test     *TestResult `json:"test,omitempty"`

	// Err is set when the comparison was skipped; the test fields are then meaningless.
	// Error carries its message for serialised output.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Skipped reports whether no test result is available for this field
func (c Comparison) Skipped() bool {
	return c.Err != nil || c.Test == nil
}

// GroupReport collects every field comparison for one grouping
type GroupReport struct {
	GroupField  core.FieldKey `json:"group_field"`
	GroupALabel string        `json:"group_a_label"`
	GroupBLabel string        `json:"group_b_label"`
	Dropped     int           `json:"dropped"`
	Alpha       float64       `json:"alpha"`
	Correction  Correction    `json:"correction"`
	Comparisons []Comparison  `json:"comparisons"`
}

// TestsRun counts the comparisons that produced a test result
func (r GroupReport) TestsRun() int {
	n := 0
	for _, c := range r.Comparisons {
		if !c.Skipped() {
			n++
		}
	}
	return n
}

// FamilyWiseErrorBound is the chance of at least one false positive across
// TestsRun independent uncorrected tests at Alpha.
func (r GroupReport) FamilyWiseErrorBound() float64 {
	m := r.TestsRun()
	p := 1.0
	for i := 0; i < m; i++ {
		p *= 1 - r.Alpha
	}
	return 1 - p
}

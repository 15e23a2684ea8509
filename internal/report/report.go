package report

import (
	"context"
	"fmt"
	"time"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	domainstats "cardiostat/domain/stats"
	"cardiostat/internal"
	"cardiostat/internal/analysis"
	"cardiostat/internal/chart"
	"cardiostat/internal/profiling"
)

// DefaultTopPairs is how many correlation pairs a report lists
const DefaultTopPairs = 5

// MissingCount is the number of absent cells in one column
type MissingCount struct {
	Field core.FieldKey     `json:"field"`
	Kind  dataset.FieldKind `json:"kind"`
	Count int               `json:"count"`
}

// Report is the full analysis of one dataset against one grouping field
type Report struct {
	RunID       core.RunID     `json:"run_id"`
	CreatedAt   core.Timestamp `json:"created_at"`
	Source      string         `json:"source"`
	Fingerprint core.Hash      `json:"fingerprint,omitempty"`
	Rows        int            `json:"rows"`
	Columns     int            `json:"columns"`

	Missing         []MissingCount             `json:"missing"`
	Descriptive     []analysis.FieldSummary    `json:"descriptive"`
	Shapes          []profiling.Shape          `json:"shapes"`
	Comparison      *domainstats.GroupReport   `json:"comparison"`
	TopCorrelations []analysis.CorrelationPair `json:"top_correlations"`
	Charts          []chart.Chart              `json:"charts,omitempty"`
}

// Builder runs every analysis step for a report
type Builder struct {
	comparator *analysis.Comparator
	profiler   *profiling.DistributionAnalyzer
	renderer   *chart.Renderer
	topPairs   int
	logger     *internal.Logger
}

// NewBuilder creates a builder. A nil renderer produces a report without charts.
func NewBuilder(comparator *analysis.Comparator, renderer *chart.Renderer, logger *internal.Logger) *Builder {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Builder{
		comparator: comparator,
		profiler:   profiling.NewDistributionAnalyzer(comparator.Alpha()),
		renderer:   renderer,
		topPairs:   DefaultTopPairs,
		logger:     logger.With("report"),
	}
}

// WithTopPairs sets how many correlation pairs are listed
func (b *Builder) WithTopPairs(n int) *Builder {
	b.topPairs = n
	return b
}

// Build analyses ds. fields defaults to every numeric column except the
// grouping field. Errors from the grouping field are fatal; per-field
// failures end up on the comparison rows.
func (b *Builder) Build(ctx context.Context, ds *dataset.Dataset, groupField core.FieldKey, fields []core.FieldKey) (*Report, error) {
	start := time.Now()
	if ds.Len() == 0 {
		return nil, fmt.Errorf("dataset %q: %w", ds.Name, core.ErrEmptyDataset)
	}
	numeric := ds.Schema().Keys(dataset.KindNumeric)
	if len(fields) == 0 {
		for _, f := range numeric {
			if f != groupField {
				fields = append(fields, f)
			}
		}
	}

	comparison, err := b.comparator.Compare(ctx, ds, groupField, fields)
	if err != nil {
		return nil, err
	}

	r := &Report{
		RunID:       core.NewRunID(),
		CreatedAt:   core.Now(),
		Source:      ds.Name,
		Fingerprint: ds.Fingerprint,
		Rows:        ds.Len(),
		Columns:     ds.Schema().Len(),
		Descriptive: analysis.DescribeAll(ds),
		Shapes:      b.profiler.ProfileAll(ds),
		Comparison:  comparison,
	}
	for _, f := range ds.Schema().Fields() {
		n, err := ds.MissingCount(f.Key)
		if err != nil {
			return nil, err
		}
		r.Missing = append(r.Missing, MissingCount{Field: f.Key, Kind: f.Kind, Count: n})
	}

	corr, err := analysis.Correlate(ds, numeric)
	if err != nil {
		return nil, err
	}
	r.TopCorrelations = corr.TopPairs(b.topPairs)

	if b.renderer != nil {
		charts, err := b.renderer.RenderAll(ctx, ds, groupField, corr)
		if err != nil {
			return nil, err
		}
		r.Charts = charts
		if sc, ok := b.strongestScatter(ds, groupField, r.TopCorrelations); ok {
			r.Charts = append(r.Charts, sc)
		}
	}

	b.logger.Info("built report %s for %q: %d rows, %d comparisons in %v",
		r.RunID, r.Source, r.Rows, len(comparison.Comparisons), time.Since(start))
	return r, nil
}

// strongestScatter plots the most correlated pair coloured by group
func (b *Builder) strongestScatter(ds *dataset.Dataset, groupField core.FieldKey, pairs []analysis.CorrelationPair) (chart.Chart, bool) {
	if len(pairs) == 0 {
		return chart.Chart{}, false
	}
	spec, err := chart.Project(ds, chart.ScatterView{X: pairs[0].X, Y: pairs[0].Y, ColorBy: groupField})
	if err == nil {
		var c chart.Chart
		if c, err = b.renderer.Scatter(spec); err == nil {
			return c, true
		}
	}
	b.logger.Warn("skipping scatter of %q vs %q: %v", pairs[0].Y, pairs[0].X, err)
	return chart.Chart{}, false
}

// MultipleComparisonNote explains how many tests ran and whether the
// p-values were adjusted for it
func MultipleComparisonNote(gr *domainstats.GroupReport) string {
	m := gr.TestsRun()
	if gr.Correction != "" && gr.Correction != domainstats.CorrectionNone {
		return fmt.Sprintf("P-values were adjusted with the %s method across %d tests; verdicts use the adjusted values at alpha = %.2f.",
			gr.Correction, m, gr.Alpha)
	}
	if m <= 1 {
		return fmt.Sprintf("%d test was run at alpha = %.2f, so no multiple-comparison adjustment applies.", m, gr.Alpha)
	}
	return fmt.Sprintf("%d tests were run at alpha = %.2f without adjustment. If every null hypothesis held, "+
		"the chance of at least one false positive would be up to %.1f%%. Set CORRECTION=holm or CORRECTION=bonferroni to adjust.",
		m, gr.Alpha, 100*gr.FamilyWiseErrorBound())
}

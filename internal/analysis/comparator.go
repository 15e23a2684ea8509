package analysis

import (
	"context"
	"runtime"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	domainstats "cardiostat/domain/stats"
	"cardiostat/internal"

	"golang.org/x/sync/errgroup"
)

// ComparatorConfig controls the group comparator
type ComparatorConfig struct {
	Alpha      float64
	Correction domainstats.Correction
	Workers    int
}

// DefaultComparatorConfig uses alpha 0.05, no correction and one worker per CPU
func DefaultComparatorConfig() ComparatorConfig {
	return ComparatorConfig{
		Alpha:      domainstats.DefaultAlpha,
		Correction: domainstats.CorrectionNone,
		Workers:    runtime.NumCPU(),
	}
}

// Comparator describes two groups and tests their means field by field
type Comparator struct {
	config ComparatorConfig
	logger *internal.Logger
}

// NewComparator creates a comparator; a nil logger falls back to the default
func NewComparator(config ComparatorConfig, logger *internal.Logger) *Comparator {
	if config.Alpha <= 0 || config.Alpha >= 1 {
		config.Alpha = domainstats.DefaultAlpha
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Correction == "" {
		config.Correction = domainstats.CorrectionNone
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Comparator{config: config, logger: logger.With("comparator")}
}

// Alpha is the significance threshold used for verdicts
func (c *Comparator) Alpha() float64 { return c.config.Alpha }

// CompareSamples runs Welch's t-test at the configured alpha
func (c *Comparator) CompareSamples(a, b []float64) (domainstats.TestResult, error) {
	return WelchTTest(a, b, c.config.Alpha)
}

// Compare partitions ds by groupField and compares every field. A failure on
// one field is recorded on its Comparison and does not stop the others; only
// an unusable grouping field or a cancelled context is returned as an error.
func (c *Comparator) Compare(ctx context.Context, ds *dataset.Dataset, groupField core.FieldKey, fields []core.FieldKey) (*domainstats.GroupReport, error) {
	partition, err := ds.Partition(groupField)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("partitioned %q into %q (%d) and %q (%d), %d dropped",
		groupField, partition.A.Label, partition.A.Records.Len(),
		partition.B.Label, partition.B.Records.Len(), partition.Dropped)

	comparisons := make([]domainstats.Comparison, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)
	for i, field := range fields {
		i, field := i, field
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			comparisons[i] = c.compareField(partition, field)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domainstats.GroupReport{
		GroupField:  groupField,
		GroupALabel: partition.A.Label,
		GroupBLabel: partition.B.Label,
		Dropped:     partition.Dropped,
		Alpha:       c.config.Alpha,
		Correction:  c.config.Correction,
		Comparisons: comparisons,
	}
	c.applyCorrection(report)

	if report.TestsRun() > 1 && c.config.Correction == domainstats.CorrectionNone {
		c.logger.Warn("%d uncorrected tests at alpha %.2f: chance of at least one false positive up to %.0f%%",
			report.TestsRun(), report.Alpha, 100*report.FamilyWiseErrorBound())
	}
	return report, nil
}

func (c *Comparator) compareField(p *dataset.Partition, field core.FieldKey) domainstats.Comparison {
	cmp := domainstats.Comparison{
		Field:       field,
		GroupALabel: p.A.Label,
		GroupBLabel: p.B.Label,
	}

	a, b, err := p.Numeric(field)
	if err != nil {
		c.logger.Warn("skipping %q: %v", field, err)
		cmp.Err, cmp.Error = err, err.Error()
		return cmp
	}

	cmp.SummaryA = Describe(a)
	cmp.SummaryB = Describe(b)
	cmp.NA, cmp.NB = cmp.SummaryA.Count, cmp.SummaryB.Count
	cmp.MeanA, cmp.MeanB = cmp.SummaryA.Mean, cmp.SummaryB.Mean

	result, err := c.CompareSamples(a, b)
	if err != nil {
		c.logger.Warn("skipping %q: %v", field, err)
		cmp.Err, cmp.Error = err, err.Error()
		return cmp
	}
	if result.Degenerate {
		c.logger.Debug("%q: %v", field, core.ErrDegenerateVariance)
	}

	cmp.Test = &result
	cmp.TStatistic = result.TStatistic
	cmp.PValue = result.PValue
	cmp.Significant = result.Significant
	return cmp
}

// applyCorrection adjusts p-values across the comparisons that ran and
// re-derives their verdicts from the adjusted values.
func (c *Comparator) applyCorrection(report *domainstats.GroupReport) {
	if report.Correction == domainstats.CorrectionNone {
		return
	}
	var idx []int
	var pvalues []float64
	for i, cmp := range report.Comparisons {
		if !cmp.Skipped() {
			idx = append(idx, i)
			pvalues = append(pvalues, cmp.PValue)
		}
	}
	adjusted := AdjustPValues(pvalues, report.Correction)
	for k, i := range idx {
		p := adjusted[k]
		report.Comparisons[i].AdjustedP = &p
		report.Comparisons[i].Significant = p < report.Alpha
	}
}

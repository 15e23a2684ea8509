package app

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"time"

	"cardiostat/adapters/excel"
	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	domainstats "cardiostat/domain/stats"
	"cardiostat/internal"
	"cardiostat/internal/analysis"
	"cardiostat/internal/chart"
	"cardiostat/internal/config"
	"cardiostat/internal/errors"
	"cardiostat/internal/profiling"
	"cardiostat/internal/report"
	"cardiostat/internal/testkit"
	"cardiostat/ports"
)

// AnalysisService wires a dataset source to the comparator, charts and report
type AnalysisService struct {
	source ports.DatasetSource
	config *config.Config
	logger *internal.Logger
}

// NewAnalysisService creates a service. A nil logger is built from config.
func NewAnalysisService(source ports.DatasetSource, cfg *config.Config, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = cfg.Logger()
	}
	return &AnalysisService{source: source, config: cfg, logger: logger}
}

// Dataset loads the table and applies the configured sample size
func (s *AnalysisService) Dataset() (*dataset.Dataset, error) {
	start := time.Now()
	ds, err := s.source.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset")
	}
	if n := s.config.Data.SampleSize; n > 0 && n < ds.Len() {
		s.logger.Info("sampling %d of %d records (seed %d)", n, ds.Len(), s.config.Data.Seed)
		ds = ds.Sample(n, s.config.Data.Seed)
	}
	s.logger.Debug("dataset ready in %v", time.Since(start))
	return ds, nil
}

// Comparator builds a comparator from the analysis config
func (s *AnalysisService) Comparator() *analysis.Comparator {
	return analysis.NewComparator(analysis.ComparatorConfig{
		Alpha:      s.config.Analysis.Alpha,
		Correction: s.config.Analysis.Correction,
		Workers:    s.config.Analysis.Workers,
	}, s.logger)
}

// Describe summarises the given numeric fields, or all of them
func (s *AnalysisService) Describe(fields []core.FieldKey) ([]analysis.FieldSummary, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return analysis.DescribeAll(ds), nil
	}
	out := make([]analysis.FieldSummary, 0, len(fields))
	for _, f := range fields {
		fs, err := analysis.DescribeField(ds, f)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, err)
		}
		out = append(out, fs)
	}
	return out, nil
}

// Shapes profiles the distribution of the given numeric fields, or all of them
func (s *AnalysisService) Shapes(fields []core.FieldKey) ([]profiling.Shape, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	da := profiling.NewDistributionAnalyzer(s.config.Analysis.Alpha)
	if len(fields) == 0 {
		return da.ProfileAll(ds), nil
	}
	out := make([]profiling.Shape, 0, len(fields))
	for _, f := range fields {
		shape, err := da.Profile(ds, f)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, err)
		}
		out = append(out, shape)
	}
	return out, nil
}

// Compare runs the group comparison on the configured grouping field. No
// fields means every numeric field except the grouping one.
func (s *AnalysisService) Compare(ctx context.Context, fields []core.FieldKey) (*domainstats.GroupReport, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	group := core.FieldKey(s.config.Data.GroupField)
	if len(fields) == 0 {
		for _, f := range ds.Schema().Keys(dataset.KindNumeric) {
			if f != group {
				fields = append(fields, f)
			}
		}
	}
	gr, err := s.Comparator().Compare(ctx, ds, group, fields)
	if err != nil {
		return nil, s.fatal(err)
	}
	return gr, nil
}

// Correlate computes the correlation matrix of the given numeric fields, or all of them
func (s *AnalysisService) Correlate(fields []core.FieldKey) (*analysis.CorrelationMatrix, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		fields = ds.Schema().Keys(dataset.KindNumeric)
	}
	m, err := analysis.Correlate(ds, fields)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return m, nil
}

// Charts renders the standard chart set into <output>/charts
func (s *AnalysisService) Charts(ctx context.Context) ([]chart.Chart, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	renderer, err := s.renderer()
	if err != nil {
		return nil, err
	}
	corr, err := analysis.Correlate(ds, ds.Schema().Keys(dataset.KindNumeric))
	if err != nil {
		return nil, errors.Wrap(err, "failed to correlate fields")
	}
	return renderer.RenderAll(ctx, ds, core.FieldKey(s.config.Data.GroupField), corr)
}

// Scatter projects a view and renders it into <output>/charts
func (s *AnalysisService) Scatter(view chart.ScatterView) (chart.Chart, error) {
	ds, err := s.Dataset()
	if err != nil {
		return chart.Chart{}, err
	}
	spec, err := chart.Project(ds, view)
	if err != nil {
		return chart.Chart{}, errors.WithCode(errors.CodeInvalidInput, err)
	}
	renderer, err := s.renderer()
	if err != nil {
		return chart.Chart{}, err
	}
	return renderer.Scatter(spec)
}

// Report builds the full report and writes it into the output directory
func (s *AnalysisService) Report(ctx context.Context) (*report.Report, report.Files, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, report.Files{}, err
	}
	var renderer *chart.Renderer
	if s.config.Output.Charts {
		if renderer, err = s.renderer(); err != nil {
			return nil, report.Files{}, err
		}
	}

	builder := report.NewBuilder(s.Comparator(), renderer, s.logger).WithTopPairs(s.config.Analysis.TopPairs)
	r, err := builder.Build(ctx, ds, core.FieldKey(s.config.Data.GroupField), nil)
	if err != nil {
		return nil, report.Files{}, s.fatal(err)
	}
	files, err := r.Write(s.config.Output.Dir)
	if err != nil {
		return nil, report.Files{}, errors.Wrap(err, "failed to write report")
	}
	s.logger.Info("report %s written to %s", r.RunID, files.HTML)
	return r, files, nil
}

func (s *AnalysisService) renderer() (*chart.Renderer, error) {
	r, err := chart.NewRenderer(filepath.Join(s.config.Output.Dir, "charts"), s.logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare chart directory")
	}
	return r, nil
}

// fatal tags grouping, schema and empty-table failures as invalid input
func (s *AnalysisService) fatal(err error) error {
	if core.IsSchemaError(err) || stderrors.Is(err, core.ErrEmptyDataset) {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	return errors.Wrap(err, "analysis failed")
}

// SourceFor reads cfg.Data.File, or synthesises a heart-disease table with
// cfg.Data.Seed when no file is configured.
func SourceFor(cfg *config.Config, logger *internal.Logger) ports.DatasetSource {
	if cfg.Data.File == "" {
		logger.Warn("no DATA_FILE configured, using synthetic data")
		gc := testkit.DefaultHeartConfig()
		gc.Seed = cfg.Data.Seed
		return testkit.NewHeartDataGenerator(gc)
	}
	ec := excel.DefaultExcelConfig(cfg.Data.File)
	ec.Sheet = cfg.Data.Sheet
	return excel.NewDataReader(ec, logger)
}

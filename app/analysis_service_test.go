package app

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"cardiostat/adapters/datareadiness/coercer"
	"cardiostat/adapters/excel"
	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	domainstats "cardiostat/domain/stats"
	"cardiostat/internal"
	"cardiostat/internal/chart"
	"cardiostat/internal/config"
	"cardiostat/internal/errors"
	"cardiostat/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{ err error }

func (f failingSource) Load() (*dataset.Dataset, error) { return nil, f.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Analysis.Workers = 2
	return cfg
}

func syntheticSource(rows int) *testkit.HeartDataGenerator {
	gc := testkit.DefaultHeartConfig()
	gc.Rows = rows
	return testkit.NewHeartDataGenerator(gc)
}

func TestAnalysisService_Dataset_Sample(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.SampleSize = 50

	ds, err := NewAnalysisService(syntheticSource(200), cfg, internal.Discard).Dataset()
	require.NoError(t, err)
	assert.Equal(t, 50, ds.Len())
}

func TestAnalysisService_Describe(t *testing.T) {
	svc := NewAnalysisService(syntheticSource(120), testConfig(t), internal.Discard)

	all, err := svc.Describe(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(coercer.HeartDiseaseNumeric))

	some, err := svc.Describe([]core.FieldKey{coercer.FieldBMI})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, coercer.FieldBMI, some[0].Field)

	_, err = svc.Describe([]core.FieldKey{coercer.FieldGender})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrNonNumeric))
}

func TestAnalysisService_Shapes(t *testing.T) {
	svc := NewAnalysisService(syntheticSource(120), testConfig(t), internal.Discard)

	all, err := svc.Shapes(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(coercer.HeartDiseaseNumeric))

	_, err = svc.Shapes([]core.FieldKey{coercer.FieldSmoking})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestAnalysisService_Compare(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.Correction = domainstats.CorrectionBonferroni
	svc := NewAnalysisService(syntheticSource(400), cfg, internal.Discard)

	gr, err := svc.Compare(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, gr.Comparisons, len(coercer.HeartDiseaseNumeric))
	for _, c := range gr.Comparisons {
		assert.NotNil(t, c.AdjustedP, c.Field)
	}

	cfg.Data.GroupField = string(coercer.FieldStress)
	_, err = svc.Compare(context.Background(), nil)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrGroupingNotBinary))
}

func TestAnalysisService_Correlate(t *testing.T) {
	svc := NewAnalysisService(syntheticSource(100), testConfig(t), internal.Discard)

	m, err := svc.Correlate([]core.FieldKey{coercer.FieldAge, coercer.FieldBMI})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Values[0][0])

	_, err = svc.Correlate([]core.FieldKey{"Height"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestAnalysisService_ChartsAndScatter(t *testing.T) {
	cfg := testConfig(t)
	svc := NewAnalysisService(syntheticSource(80), cfg, internal.Discard)

	charts, err := svc.Charts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, charts)

	c, err := svc.Scatter(chart.ScatterView{X: coercer.FieldAge, Y: coercer.FieldCholesterol, ColorBy: coercer.FieldGender})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "charts", "scatter_age-cholesterol-level.png"), c.Path)

	_, err = svc.Scatter(chart.ScatterView{X: coercer.FieldAge, Y: coercer.FieldGender})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestAnalysisService_ReportFromCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heart_disease.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, syntheticSource(150).WriteCSV(f))
	require.NoError(t, f.Close())

	cfg := testConfig(t)
	cfg.Output.Charts = false
	reader := excel.NewDataReader(excel.DefaultExcelConfig(path), internal.Discard)

	r, files, err := NewAnalysisService(reader, cfg, internal.Discard).Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "heart_disease", r.Source)
	assert.False(t, r.Fingerprint.IsEmpty())
	assert.Empty(t, r.Charts)
	assert.FileExists(t, files.Markdown)
	assert.FileExists(t, files.HTML)
}

func TestAnalysisService_SourceErrors(t *testing.T) {
	cfg := testConfig(t)
	missing := excel.NewDataReader(excel.DefaultExcelConfig(filepath.Join(t.TempDir(), "nope.csv")), internal.Discard)

	_, _, err := NewAnalysisService(missing, cfg, internal.Discard).Report(context.Background())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = NewAnalysisService(failingSource{err: stderrors.New("disk on fire")}, cfg, internal.Discard).Dataset()
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}

func TestSourceFor(t *testing.T) {
	cfg := testConfig(t)
	_, synthetic := SourceFor(cfg, internal.Discard).(*testkit.HeartDataGenerator)
	assert.True(t, synthetic)

	cfg.Data.File = "heart_disease.xlsx"
	_, fromFile := SourceFor(cfg, internal.Discard).(*excel.DataReader)
	assert.True(t, fromFile)
}

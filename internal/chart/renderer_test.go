package chart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cardiostat/adapters/datareadiness/coercer"
	"cardiostat/domain/core"
	"cardiostat/internal"
	"cardiostat/internal/analysis"
	"cardiostat/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(filepath.Join(t.TempDir(), "charts"), internal.Discard)
	require.NoError(t, err)
	return r
}

func TestRenderer_SingleCharts(t *testing.T) {
	cfg := testkit.DefaultHeartConfig()
	cfg.Rows = 120
	ds := testkit.NewHeartDataGenerator(cfg).Dataset()
	r := newTestRenderer(t)

	bar, err := r.Bar(ds, coercer.FieldSmoking)
	require.NoError(t, err)
	assert.Equal(t, KindBar, bar.Kind)
	assert.Equal(t, filepath.Join(r.Dir(), "bar_smoking.png"), bar.Path)
	assertPNG(t, bar.Path)

	box, err := r.Boxplot(ds, coercer.FieldCRP, coercer.FieldHeartDiseaseStatus)
	require.NoError(t, err)
	assertPNG(t, box.Path)

	qq, err := r.QQ(ds, coercer.FieldBMI)
	require.NoError(t, err)
	assert.Equal(t, "Normal QQ plot of BMI", qq.Title)
	assertPNG(t, qq.Path)

	corr, err := analysis.Correlate(ds, coercer.HeartDiseaseNumeric)
	require.NoError(t, err)
	heat, err := r.Heatmap(corr)
	require.NoError(t, err)
	assertPNG(t, heat.Path)

	spec, err := Project(ds, ScatterView{X: coercer.FieldBMI, Y: coercer.FieldCRP, ColorBy: coercer.FieldHeartDiseaseStatus})
	require.NoError(t, err)
	sc, err := r.Scatter(spec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir(), "scatter_bmi-crp-level.png"), sc.Path)
	assertPNG(t, sc.Path)
}

func TestRenderer_Errors(t *testing.T) {
	ds := testkit.NewHeartDataGenerator(testkit.DefaultHeartConfig()).Dataset()
	r := newTestRenderer(t)

	_, err := r.Bar(ds, "Diet")
	assert.True(t, errors.Is(err, core.ErrMissingColumn))

	_, err = r.QQ(ds, coercer.FieldGender)
	assert.True(t, errors.Is(err, core.ErrNonNumeric))

	_, err = r.Boxplot(ds, coercer.FieldAge, coercer.FieldStress)
	assert.True(t, errors.Is(err, core.ErrGroupingNotBinary))

	_, err = r.Heatmap(&analysis.CorrelationMatrix{})
	assert.True(t, errors.Is(err, core.ErrEmptyDataset))

	_, err = r.Scatter(&ScatterSpec{View: ScatterView{X: "BMI", Y: "Age"}})
	assert.True(t, errors.Is(err, core.ErrEmptyDataset))
}

func TestRenderer_RenderAll(t *testing.T) {
	cfg := testkit.DefaultHeartConfig()
	cfg.Rows = 80
	ds := testkit.NewHeartDataGenerator(cfg).Dataset()
	corr, err := analysis.Correlate(ds, coercer.HeartDiseaseNumeric)
	require.NoError(t, err)
	r := newTestRenderer(t)

	charts, err := r.RenderAll(context.Background(), ds, coercer.FieldHeartDiseaseStatus, corr)
	require.NoError(t, err)

	kinds := make(map[Kind]int)
	for _, c := range charts {
		kinds[c.Kind]++
		assertPNG(t, c.Path)
	}
	assert.Equal(t, len(coercer.HeartDiseaseCategorical), kinds[KindBar])
	assert.Equal(t, len(coercer.HeartDiseaseNumeric), kinds[KindBoxplot])
	assert.Equal(t, len(coercer.HeartDiseaseNumeric), kinds[KindQQ])
	assert.Equal(t, 1, kinds[KindHeatmap])
}

func TestRenderer_RenderAllCancelled(t *testing.T) {
	ds := testkit.NewHeartDataGenerator(testkit.DefaultHeartConfig()).Dataset()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRenderer(t).RenderAll(ctx, ds, coercer.FieldHeartDiseaseStatus, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "heart-disease-status", Slug("Heart Disease Status"))
	assert.Equal(t, "crp-level", Slug("  CRP Level!"))
	assert.Equal(t, "bmi-age", Slug("BMI_Age"))
	assert.Equal(t, "", Slug("--"))
}

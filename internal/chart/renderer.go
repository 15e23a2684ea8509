package chart

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	"cardiostat/internal"
	"cardiostat/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Kind names a chart type
type Kind string

const (
	KindBar     Kind = "bar"
	KindBoxplot Kind = "boxplot"
	KindQQ      Kind = "qq"
	KindHeatmap Kind = "heatmap"
	KindScatter Kind = "scatter"
)

// Chart is a rendered image on disk
type Chart struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Renderer draws PNG charts into a directory
type Renderer struct {
	dir    string
	width  vg.Length
	height vg.Length
	logger *internal.Logger
}

// NewRenderer creates dir if needed and returns a renderer writing into it
func NewRenderer(dir string, logger *internal.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Renderer{
		dir:    dir,
		width:  6 * vg.Inch,
		height: 4 * vg.Inch,
		logger: logger.With("chart"),
	}, nil
}

// Dir returns the output directory
func (r *Renderer) Dir() string { return r.dir }

// Bar draws the frequency of each category of field
func (r *Renderer) Bar(ds *dataset.Dataset, field core.FieldKey) (Chart, error) {
	counts, err := ds.Categories(field)
	if err != nil {
		return Chart{}, err
	}
	if len(counts) == 0 {
		return Chart{}, fmt.Errorf("bar chart of %q: %w", field, core.ErrEmptyDataset)
	}

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		names[i] = c.Label
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", field)
	p.Y.Label.Text = "Count"
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return Chart{}, err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return r.save(p, KindBar, p.Title.Text, "bar", string(field))
}

// Boxplot draws one box per group of groupField for a numeric field
func (r *Renderer) Boxplot(ds *dataset.Dataset, field, groupField core.FieldKey) (Chart, error) {
	part, err := ds.Partition(groupField)
	if err != nil {
		return Chart{}, err
	}
	a, b, err := part.Numeric(field)
	if err != nil {
		return Chart{}, err
	}
	if len(a) == 0 && len(b) == 0 {
		return Chart{}, fmt.Errorf("boxplot of %q: %w", field, core.ErrEmptyDataset)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by %s", field, groupField)
	p.Y.Label.Text = string(field)
	for i, values := range [][]float64{a, b} {
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(values))
		if err != nil {
			return Chart{}, err
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(part.A.Label, part.B.Label)

	return r.save(p, KindBoxplot, p.Title.Text, "box", string(field))
}

// QQ draws sample quantiles against normal quantiles with the identity line
func (r *Renderer) QQ(ds *dataset.Dataset, field core.FieldKey) (Chart, error) {
	values, err := ds.Numeric(field)
	if err != nil {
		return Chart{}, err
	}
	points := analysis.NormalQQ(values)
	if len(points) == 0 {
		return Chart{}, fmt.Errorf("qq plot of %q: %w", field, core.ErrEmptyDataset)
	}

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X, xys[i].Y = pt.Theoretical, pt.Sample
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Normal QQ plot of %s", field)
	p.X.Label.Text = "Theoretical quantiles"
	p.Y.Label.Text = "Standardised sample quantiles"
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return Chart{}, err
	}
	sc.GlyphStyle.Color = plotutil.Color(0)
	sc.GlyphStyle.Radius = vg.Points(1.5)
	ref := plotter.NewFunction(func(x float64) float64 { return x })
	ref.Color = color.Gray{Y: 96}
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(sc, ref)

	return r.save(p, KindQQ, p.Title.Text, "qq", string(field))
}

// correlationGrid adapts a correlation matrix to plotter.GridXYZ
type correlationGrid struct {
	m *analysis.CorrelationMatrix
}

func (g correlationGrid) Dims() (c, r int) { return len(g.m.Fields), len(g.m.Fields) }
func (g correlationGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g correlationGrid) X(c int) float64 { return float64(c) }
func (g correlationGrid) Y(r int) float64 { return float64(r) }
func (g correlationGrid) Min() float64 { return -1 }
func (g correlationGrid) Max() float64 { return 1 }

// Heatmap draws the correlation matrix on a fixed [-1, 1] diverging scale
func (r *Renderer) Heatmap(m *analysis.CorrelationMatrix) (Chart, error) {
	k := len(m.Fields)
	if k == 0 {
		return Chart{}, fmt.Errorf("correlation heatmap: %w", core.ErrEmptyDataset)
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	heat := plotter.NewHeatMap(correlationGrid{m: m}, cmap.Palette(255))
	heat.NaN = color.Gray{Y: 220}

	xys := make(plotter.XYs, 0, k*k)
	labels := make([]string, 0, k*k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(i)})
			if v := m.Values[i][j]; math.IsNaN(v) {
				labels = append(labels, "n/a")
			} else {
				labels = append(labels, fmt.Sprintf("%.2f", v))
			}
		}
	}
	cells, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return Chart{}, err
	}
	for i := range cells.TextStyle {
		cells.TextStyle[i].XAlign = draw.XCenter
		cells.TextStyle[i].YAlign = draw.YCenter
		cells.TextStyle[i].Font.Size = vg.Points(7)
	}

	names := make([]string, k)
	for i, f := range m.Fields {
		names[i] = string(f)
	}

	p := plot.New()
	p.Title.Text = "Correlation matrix"
	p.Add(heat, cells)
	p.NominalX(names...)
	p.NominalY(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	side := vg.Length(math.Max(6, 0.6*float64(k))) * vg.Inch
	return r.saveSized(p, side, side, KindHeatmap, p.Title.Text, "heatmap", "correlation")
}

// Scatter draws a projected scatter view, one colour per series
func (r *Renderer) Scatter(spec *ScatterSpec) (Chart, error) {
	if spec.Len() == 0 {
		return Chart{}, fmt.Errorf("scatter of %q vs %q: %w", spec.View.Y, spec.View.X, core.ErrEmptyDataset)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", spec.View.Y, spec.View.X)
	p.X.Label.Text = string(spec.View.X)
	p.Y.Label.Text = string(spec.View.Y)
	p.Legend.Top = true

	for i, series := range spec.Series {
		xys := make(plotter.XYs, len(series.Points))
		for j, pt := range series.Points {
			xys[j].X, xys[j].Y = pt.X, pt.Y
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return Chart{}, err
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		if series.Label != "" {
			p.Legend.Add(series.Label, sc)
		}
	}

	name := string(spec.View.X) + "_" + string(spec.View.Y)
	return r.save(p, KindScatter, p.Title.Text, "scatter", name)
}

// RenderAll draws the standard chart set for a report: a bar chart per
// categorical field, a boxplot and QQ plot per numeric field and the
// correlation heatmap. Per-chart failures are logged and skipped.
func (r *Renderer) RenderAll(ctx context.Context, ds *dataset.Dataset, groupField core.FieldKey, corr *analysis.CorrelationMatrix) ([]Chart, error) {
	start := time.Now()
	var charts []Chart
	keep := func(c Chart, err error, what string) {
		if err != nil {
			r.logger.Warn("skipping %s: %v", what, err)
			return
		}
		charts = append(charts, c)
	}

	for _, field := range ds.Schema().Keys(dataset.KindCategorical) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := r.Bar(ds, field)
		keep(c, err, "bar chart of "+string(field))
	}
	for _, field := range ds.Schema().Keys(dataset.KindNumeric) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := r.Boxplot(ds, field, groupField)
		keep(c, err, "boxplot of "+string(field))
		c, err = r.QQ(ds, field)
		keep(c, err, "qq plot of "+string(field))
	}
	if corr != nil {
		c, err := r.Heatmap(corr)
		keep(c, err, "correlation heatmap")
	}

	r.logger.Info("rendered %d charts into %s in %v", len(charts), r.dir, time.Since(start))
	return charts, nil
}

func (r *Renderer) save(p *plot.Plot, kind Kind, title, prefix, name string) (Chart, error) {
	return r.saveSized(p, r.width, r.height, kind, title, prefix, name)
}

func (r *Renderer) saveSized(p *plot.Plot, w, h vg.Length, kind Kind, title, prefix, name string) (Chart, error) {
	path := filepath.Join(r.dir, prefix+"_"+Slug(name)+".png")
	if err := p.Save(w, h, path); err != nil {
		return Chart{}, fmt.Errorf("save %s: %w", path, err)
	}
	r.logger.Debug("wrote %s", path)
	return Chart{Kind: kind, Title: title, Path: path}, nil
}

// Slug lower-cases s and replaces runs of non-alphanumerics with a hyphen
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(s) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

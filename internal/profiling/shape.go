package profiling

import (
	"math"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	domainstats "cardiostat/domain/stats"
	"cardiostat/internal/analysis"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// outlierFence is the IQR multiple beyond the quartiles that marks an outlier
const outlierFence = 1.5

// Shape describes how far a numeric column departs from a normal
// distribution. Statistics that need more data than N are NaN.
type Shape struct {
	Field core.FieldKey `json:"field"`
	N     int           `json:"n"`
	// Skewness is the adjusted Fisher-Pearson coefficient (n >= 3)
	Skewness float64 `json:"skewness"`
	// Kurtosis is the bias-corrected excess kurtosis (n >= 4)
	Kurtosis   float64 `json:"kurtosis"`
	JarqueBera float64 `json:"jarque_bera"`
	NormalP    float64 `json:"normal_p"`
	Normal     bool    `json:"normal"`
	Outliers   int     `json:"outliers"`
}

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct {
	alpha float64
}

// NewDistributionAnalyzer creates an analyzer that calls a column normal
// when the Jarque-Bera p-value is at least alpha
func NewDistributionAnalyzer(alpha float64) *DistributionAnalyzer {
	if alpha <= 0 || alpha >= 1 {
		alpha = domainstats.DefaultAlpha
	}
	return &DistributionAnalyzer{alpha: alpha}
}

// Analyze computes the shape of data. NaN entries are treated as missing.
func (da *DistributionAnalyzer) Analyze(field core.FieldKey, data []float64) Shape {
	values := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}

	shape := Shape{
		Field:      field,
		N:          len(values),
		Skewness:   math.NaN(),
		Kurtosis:   math.NaN(),
		JarqueBera: math.NaN(),
		NormalP:    math.NaN(),
	}
	if len(values) == 0 {
		return shape
	}

	summary := analysis.Describe(values)
	if summary.P25 != nil && summary.P75 != nil {
		shape.Outliers = countOutliers(values, *summary.P25, *summary.P75)
	}

	_, std := stat.MeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return shape
	}

	n := float64(len(values))
	if n >= 3 {
		shape.Skewness = stat.Skew(values, nil)
	}
	if n >= 4 {
		shape.Kurtosis = stat.ExKurtosis(values, nil)
		// Jarque-Bera uses the uncorrected moment estimators
		g1 := shape.Skewness * (n - 2) / math.Sqrt(n*(n-1))
		g2 := (shape.Kurtosis*(n-2)*(n-3)/(n-1) - 6) / (n + 1)
		shape.JarqueBera = n / 6 * (g1*g1 + g2*g2/4)
		shape.NormalP = distuv.ChiSquared{K: 2}.Survival(shape.JarqueBera)
		shape.Normal = shape.NormalP >= da.alpha
	}
	return shape
}

// Profile computes the shape of one numeric column
func (da *DistributionAnalyzer) Profile(ds *dataset.Dataset, field core.FieldKey) (Shape, error) {
	values, err := ds.Numeric(field)
	if err != nil {
		return Shape{}, err
	}
	return da.Analyze(field, values), nil
}

// ProfileAll computes the shape of every numeric column in schema order
func (da *DistributionAnalyzer) ProfileAll(ds *dataset.Dataset) []Shape {
	keys := ds.Schema().Keys(dataset.KindNumeric)
	out := make([]Shape, 0, len(keys))
	for _, key := range keys {
		values, err := ds.Numeric(key)
		if err != nil {
			continue
		}
		out = append(out, da.Analyze(key, values))
	}
	return out
}

// countOutliers counts values outside the Tukey fences of the quartiles
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - outlierFence*iqr
	upper := q75 + outlierFence*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}

package analysis

import (
	"math"
	"sort"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	domainstats "cardiostat/domain/stats"

	"github.com/montanaflynn/stats"
)

var quartiles = []float64{25, 50, 75}

// Describe summarises a sample. NaN entries are treated as missing.
func Describe(values []float64) domainstats.Summary {
	data := dropNaN(values)
	if len(data) == 0 {
		return domainstats.Summary{}
	}

	desc, err := stats.DescribePercentileFunc(data, false, &quartiles, interpolatedPercentile)
	if err != nil {
		return domainstats.Summary{}
	}

	summary := domainstats.Summary{
		Count: desc.Count,
		Mean:  ptr(desc.Mean),
		Min:   ptr(desc.Min),
		Max:   ptr(desc.Max),
	}
	if len(data) >= 2 {
		if sd, err := stats.StandardDeviationSample(data); err == nil {
			summary.Std = ptr(sd)
		}
	}
	for _, p := range desc.DescriptionPercentiles {
		switch p.Percentile {
		case 25:
			summary.P25 = ptr(p.Value)
		case 50:
			summary.P50 = ptr(p.Value)
		case 75:
			summary.P75 = ptr(p.Value)
		}
	}
	return summary
}

// FieldSummary is the description of one numeric column
type FieldSummary struct {
	Field   core.FieldKey       `json:"field"`
	Missing int                 `json:"missing"`
	Summary domainstats.Summary `json:"summary"`
}

// DescribeField summarises the non-missing values of a numeric column
func DescribeField(ds *dataset.Dataset, field core.FieldKey) (FieldSummary, error) {
	values, err := ds.Numeric(field)
	if err != nil {
		return FieldSummary{}, err
	}
	missing, err := ds.MissingCount(field)
	if err != nil {
		return FieldSummary{}, err
	}
	return FieldSummary{Field: field, Missing: missing, Summary: Describe(values)}, nil
}

// DescribeAll summarises every numeric column in schema order
func DescribeAll(ds *dataset.Dataset) []FieldSummary {
	keys := ds.Schema().Keys(dataset.KindNumeric)
	out := make([]FieldSummary, 0, len(keys))
	for _, key := range keys {
		fs, err := DescribeField(ds, key)
		if err != nil {
			continue
		}
		out = append(out, fs)
	}
	return out
}

// interpolatedPercentile linearly interpolates between closest ranks,
// h = (n-1)p, the definition pandas.describe reports.
func interpolatedPercentile(input stats.Float64Data, percent float64) (float64, error) {
	if input.Len() == 0 {
		return math.NaN(), stats.ErrEmptyInput
	}
	if percent < 0 || percent > 100 {
		return math.NaN(), stats.ErrBounds
	}

	sorted := make([]float64, input.Len())
	copy(sorted, input)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * percent / 100
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)], nil
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)]), nil
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }

package analysis

import (
	"math"

	"cardiostat/domain/core"
	domainstats "cardiostat/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchTTest compares the means of a and b without assuming equal variances.
// NaN entries are treated as missing. Either sample with fewer than two
// observations yields core.ErrInsufficientData.
//
// When both samples are constant the standard error is zero: equal means
// report t = 0, p = 1; unequal means report t = ±Inf, p = 0. Both cases set
// Degenerate instead of failing.
func WelchTTest(a, b []float64, alpha float64) (domainstats.TestResult, error) {
	a, b = dropNaN(a), dropNaN(b)
	if len(a) < core.MinSampleSize {
		return domainstats.TestResult{}, core.NewInsufficientDataError("a", len(a))
	}
	if len(b) < core.MinSampleSize {
		return domainstats.TestResult{}, core.NewInsufficientDataError("b", len(b))
	}

	n1, n2 := float64(len(a)), float64(len(b))
	mean1, _ := stats.Mean(a)
	mean2, _ := stats.Mean(b)
	var1, _ := stats.SampleVariance(a)
	var2, _ := stats.SampleVariance(b)

	result := domainstats.TestResult{
		NA:    len(a),
		NB:    len(b),
		MeanA: mean1,
		MeanB: mean2,
	}

	se1, se2 := var1/n1, var2/n2
	seSq := se1 + se2
	if seSq == 0 {
		result.Degenerate = true
		result.DF = n1 + n2 - 2
		if mean1 == mean2 {
			result.TStatistic = 0
			result.PValue = 1
		} else {
			result.TStatistic = math.Copysign(math.Inf(1), mean1-mean2)
			result.PValue = 0
		}
		result.Significant = result.PValue < alpha
		return result, nil
	}

	// Welch-Satterthwaite degrees of freedom
	df := seSq * seSq / (se1*se1/(n1-1) + se2*se2/(n2-1))
	t := (mean1 - mean2) / math.Sqrt(seSq)

	result.TStatistic = t
	result.DF = df
	result.PValue = TwoTailedP(t, df)
	result.Significant = result.PValue < alpha
	return result, nil
}

// TwoTailedP is the two-sided tail probability of Student's t with df degrees
// of freedom at |t|. df need not be an integer.
func TwoTailedP(t, df float64) float64 {
	if df <= 0 || math.IsNaN(t) || math.IsNaN(df) {
		return 1
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return math.Min(1, math.Max(0, p))
}

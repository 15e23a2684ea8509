package analysis

import (
	"math"
	"sort"

	domainstats "cardiostat/domain/stats"
)

// AdjustPValues applies a family-wise correction to pvalues, returning a new
// slice in the same order. CorrectionNone returns a copy.
func AdjustPValues(pvalues []float64, method domainstats.Correction) []float64 {
	out := make([]float64, len(pvalues))
	copy(out, pvalues)
	m := float64(len(pvalues))

	switch method {
	case domainstats.CorrectionBonferroni:
		for i, p := range out {
			out[i] = math.Min(1, p*m)
		}
	case domainstats.CorrectionHolm:
		order := make([]int, len(pvalues))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool { return pvalues[order[i]] < pvalues[order[j]] })

		running := 0.0
		for rank, idx := range order {
			adj := math.Min(1, (m-float64(rank))*pvalues[idx])
			// step-down adjusted values are monotone in rank
			running = math.Max(running, adj)
			out[idx] = running
		}
	}
	return out
}

package analysis

import (
	"math"
	"sort"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix holds pairwise Pearson coefficients. Cells without at
// least three complete pairs or with a constant column are NaN.
type CorrelationMatrix struct {
	Fields []core.FieldKey
	Values [][]float64
	N      [][]int
}

// CorrelationPair is one off-diagonal cell
type CorrelationPair struct {
	X core.FieldKey
	Y core.FieldKey
	R float64
	N int
}

// Correlate computes the matrix over fields using pairwise-complete rows
func Correlate(ds *dataset.Dataset, fields []core.FieldKey) (*CorrelationMatrix, error) {
	k := len(fields)
	m := &CorrelationMatrix{
		Fields: fields,
		Values: make([][]float64, k),
		N:      make([][]int, k),
	}
	for i := range fields {
		m.Values[i] = make([]float64, k)
		m.N[i] = make([]int, k)
	}

	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			xs, ys, err := ds.Pairs(fields[i], fields[j])
			if err != nil {
				return nil, err
			}
			r := math.NaN()
			if len(xs) >= 3 {
				r = stat.Correlation(xs, ys, nil)
			}
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j], m.Values[j][i] = r, r
			m.N[i][j], m.N[j][i] = len(xs), len(xs)
		}
	}
	return m, nil
}

// TopPairs returns the n strongest off-diagonal correlations by |r|
func (m *CorrelationMatrix) TopPairs(n int) []CorrelationPair {
	var pairs []CorrelationPair
	for i := range m.Fields {
		for j := i + 1; j < len(m.Fields); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, CorrelationPair{X: m.Fields[i], Y: m.Fields[j], R: r, N: m.N[i][j]})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].R) > math.Abs(pairs[b].R)
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

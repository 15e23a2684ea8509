package analysis

import (
	"math"
	"math/rand"
	"testing"

	"cardiostat/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_KnownValues(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})

	require.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, *s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), *s.Std, 1e-12)
	assert.Equal(t, 1.0, *s.Min)
	assert.InDelta(t, 1.75, *s.P25, 1e-12)
	assert.InDelta(t, 2.5, *s.P50, 1e-12)
	assert.InDelta(t, 3.25, *s.P75, 1e-12)
	assert.Equal(t, 4.0, *s.Max)
}

func TestDescribe_MissingValuesExcluded(t *testing.T) {
	withMissing := Describe([]float64{30, math.NaN(), 32, math.NaN(), 31})
	clean := Describe([]float64{30, 32, 31})

	assert.Equal(t, 3, withMissing.Count)
	assert.Equal(t, clean, withMissing)
}

func TestDescribe_EmptyReportsAbsentStatistics(t *testing.T) {
	for _, input := range [][]float64{nil, {}, {math.NaN(), math.NaN()}} {
		s := Describe(input)
		assert.True(t, s.IsEmpty())
		assert.Nil(t, s.Mean)
		assert.Nil(t, s.Std)
		assert.Nil(t, s.Min)
		assert.Nil(t, s.P25)
		assert.Nil(t, s.P50)
		assert.Nil(t, s.P75)
		assert.Nil(t, s.Max)
	}
}

func TestDescribe_SingleObservation(t *testing.T) {
	s := Describe([]float64{5})

	assert.Equal(t, 1, s.Count)
	assert.Nil(t, s.Std, "sample std is undefined for one observation")
	assert.Equal(t, 5.0, *s.P25)
	assert.Equal(t, 5.0, *s.P75)
}

func TestDescribe_QuartilesOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(40)
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64()*15 + 120
		}

		s := Describe(values)
		require.Equal(t, n, s.Count)
		assert.LessOrEqual(t, *s.Min, *s.P25)
		assert.LessOrEqual(t, *s.P25, *s.P50)
		assert.LessOrEqual(t, *s.P50, *s.P75)
		assert.LessOrEqual(t, *s.P75, *s.Max)
	}
}

func TestDescribeAll_NumericColumnsOnly(t *testing.T) {
	schema := dataset.NewSchema(
		dataset.Field{Key: "Age", Kind: dataset.KindNumeric},
		dataset.Field{Key: "Gender", Kind: dataset.KindCategorical},
		dataset.Field{Key: "BMI", Kind: dataset.KindNumeric},
	)
	ds := dataset.New("t", schema, []dataset.Record{
		{"Age": dataset.NewNumericValue(40), "Gender": dataset.NewStringValue("Male"), "BMI": dataset.NewNumericValue(22)},
		{"Age": dataset.NewNumericValue(60), "Gender": dataset.NewStringValue("Female")},
	})

	all := DescribeAll(ds)
	require.Len(t, all, 2)
	assert.Equal(t, "Age", string(all[0].Field))
	assert.Equal(t, 0, all[0].Missing)
	assert.Equal(t, "BMI", string(all[1].Field))
	assert.Equal(t, 1, all[1].Missing)
	assert.Equal(t, 1, all[1].Summary.Count)
}

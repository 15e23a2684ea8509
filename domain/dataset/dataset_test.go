package dataset

import (
	"errors"
	"testing"

	"cardiostat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(v float64) Value { return NewNumericValue(v) }
func str(s string) Value  { return NewStringValue(s) }

func fixture() *Dataset {
	schema := NewSchema(
		Field{Key: "Age", Kind: KindNumeric},
		Field{Key: "Gender", Kind: KindCategorical},
		Field{Key: "Heart Disease Status", Kind: KindCategorical},
	)
	records := []Record{
		{"Age": num(30), "Gender": str("Male"), "Heart Disease Status": str("No")},
		{"Age": NewMissingValue(), "Gender": str("Female"), "Heart Disease Status": str("Yes")},
		{"Age": num(32), "Gender": str("Female"), "Heart Disease Status": str("No")},
		{"Age": NewMissingValue(), "Gender": str("Male")},
		{"Age": num(31), "Heart Disease Status": str("Yes")},
	}
	return New("heart", schema, records)
}

func TestNumeric_DropsMissing(t *testing.T) {
	ds := fixture()

	values, err := ds.Numeric("Age")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 32, 31}, values)

	missing, err := ds.MissingCount("Age")
	require.NoError(t, err)
	assert.Equal(t, 2, missing)
}

func TestNumeric_SchemaErrors(t *testing.T) {
	ds := fixture()

	_, err := ds.Numeric("Cholesterol Level")
	assert.True(t, errors.Is(err, core.ErrMissingColumn))

	_, err = ds.Numeric("Gender")
	assert.True(t, errors.Is(err, core.ErrNonNumeric))
}

func TestFilter_ReturnsNewSequence(t *testing.T) {
	ds := fixture()

	males := ds.Filter(Equals("Gender", "Male"))
	assert.Equal(t, 2, males.Len())
	assert.Equal(t, 5, ds.Len(), "filter must not modify the source dataset")

	both := ds.Filter(And(Present("Age"), Present("Gender")))
	assert.Equal(t, 2, both.Len())
}

func TestPartition_DisjointAndDropsMissingLabels(t *testing.T) {
	ds := fixture()

	p, err := ds.Partition("Heart Disease Status")
	require.NoError(t, err)

	assert.Equal(t, "No", p.A.Label)
	assert.Equal(t, "Yes", p.B.Label)
	assert.Equal(t, 2, p.A.Records.Len())
	assert.Equal(t, 2, p.B.Records.Len())
	assert.Equal(t, 1, p.Dropped)
	assert.Equal(t, ds.Len(), p.A.Records.Len()+p.B.Records.Len()+p.Dropped)

	a, b, err := p.Numeric("Age")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 32}, a)
	assert.Equal(t, []float64{31}, b)
}

func TestPartition_RequiresTwoLabels(t *testing.T) {
	schema := NewSchema(Field{Key: "Stress Level", Kind: KindCategorical})
	ds := New("stress", schema, []Record{
		{"Stress Level": str("Low")},
		{"Stress Level": str("Medium")},
		{"Stress Level": str("High")},
	})

	_, err := ds.Partition("Stress Level")
	assert.True(t, errors.Is(err, core.ErrGroupingNotBinary))

	_, err = ds.Partition("Nope")
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
}

func TestPartition_NumericFlagLabels(t *testing.T) {
	schema := NewSchema(Field{Key: "Diabetes", Kind: KindNumeric}, Field{Key: "BMI", Kind: KindNumeric})
	ds := New("flags", schema, []Record{
		{"Diabetes": num(0), "BMI": num(22)},
		{"Diabetes": num(1), "BMI": num(31)},
		{"Diabetes": num(0), "BMI": num(24)},
	})

	p, err := ds.Partition("Diabetes")
	require.NoError(t, err)
	assert.Equal(t, "0", p.A.Label)
	assert.Equal(t, "1", p.B.Label)
}

func TestCategories_SortedCounts(t *testing.T) {
	cats, err := fixture().Categories("Gender")
	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{{Label: "Female", Count: 2}, {Label: "Male", Count: 2}}, cats)
}

func TestSample_DeterministicAndOrdered(t *testing.T) {
	schema := NewSchema(Field{Key: "Age", Kind: KindNumeric})
	records := make([]Record, 50)
	for i := range records {
		records[i] = Record{"Age": num(float64(i))}
	}
	ds := New("ages", schema, records)

	s1 := ds.Sample(10, 7)
	s2 := ds.Sample(10, 7)
	require.Equal(t, 10, s1.Len())

	v1, _ := s1.Numeric("Age")
	v2, _ := s2.Numeric("Age")
	assert.Equal(t, v1, v2, "same seed must give the same sample")
	for i := 1; i < len(v1); i++ {
		assert.Less(t, v1[i-1], v1[i], "sample keeps source order")
	}

	assert.Equal(t, 50, ds.Sample(0, 1).Len())
	assert.Equal(t, 50, ds.Sample(500, 1).Len())
}

func TestPairs_AlignsCompleteRows(t *testing.T) {
	schema := NewSchema(Field{Key: "Age", Kind: KindNumeric}, Field{Key: "BMI", Kind: KindNumeric})
	ds := New("pairs", schema, []Record{
		{"Age": num(40), "BMI": num(25)},
		{"Age": num(50)},
		{"BMI": num(30)},
		{"Age": num(60), "BMI": num(28)},
	})

	xs, ys, err := ds.Pairs("Age", "BMI")
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 60}, xs)
	assert.Equal(t, []float64{25, 28}, ys)
}

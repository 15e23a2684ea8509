package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalQQ(t *testing.T) {
	points := NormalQQ([]float64{3, 1, math.NaN(), 2})
	require.Len(t, points, 3)

	// symmetric sample: middle point sits at the origin
	assert.InDelta(t, 0, points[1].Theoretical, 1e-12)
	assert.InDelta(t, 0, points[1].Sample, 1e-12)
	assert.InDelta(t, -points[0].Theoretical, points[2].Theoretical, 1e-12)
	assert.InDelta(t, -1, points[0].Sample, 1e-12)
	assert.InDelta(t, 1, points[2].Sample, 1e-12)

	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1].Theoretical, points[i].Theoretical)
	}
}

func TestNormalQQ_Degenerate(t *testing.T) {
	assert.Nil(t, NormalQQ(nil))

	points := NormalQQ([]float64{4, 4, 4})
	for _, p := range points {
		assert.Equal(t, 0.0, p.Sample)
	}
}

package analysis

import (
	"testing"

	domainstats "cardiostat/domain/stats"

	"github.com/stretchr/testify/assert"
)

func TestAdjustPValues(t *testing.T) {
	p := []float64{0.01, 0.04, 0.03, 0.005}

	none := AdjustPValues(p, domainstats.CorrectionNone)
	assert.Equal(t, p, none)
	none[0] = 1
	assert.Equal(t, 0.01, p[0], "input must not be modified")

	bonf := AdjustPValues(p, domainstats.CorrectionBonferroni)
	assert.InDeltaSlice(t, []float64{0.04, 0.16, 0.12, 0.02}, bonf, 1e-12)

	holm := AdjustPValues(p, domainstats.CorrectionHolm)
	assert.InDeltaSlice(t, []float64{0.03, 0.06, 0.06, 0.02}, holm, 1e-12)
}

func TestAdjustPValues_CapsAtOne(t *testing.T) {
	adj := AdjustPValues([]float64{0.6, 0.9}, domainstats.CorrectionBonferroni)
	assert.Equal(t, []float64{1, 1}, adj)

	assert.Empty(t, AdjustPValues(nil, domainstats.CorrectionHolm))
}

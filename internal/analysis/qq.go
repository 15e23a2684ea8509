package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// QQPoint pairs a theoretical normal quantile with a standardised sample quantile
type QQPoint struct {
	Theoretical float64
	Sample      float64
}

// NormalQQ computes QQ points against the standard normal using plotting
// positions (i - 0.5)/n. The sample is standardised with its own mean and
// sample standard deviation; a constant sample is only centred.
func NormalQQ(values []float64) []QQPoint {
	data := dropNaN(values)
	n := len(data)
	if n == 0 {
		return nil
	}
	sort.Float64s(data)

	mean, _ := stats.Mean(data)
	sd := 0.0
	if n > 1 {
		sd, _ = stats.StandardDeviationSample(data)
	}

	points := make([]QQPoint, n)
	for i, v := range data {
		z := v - mean
		if sd > 0 && !math.IsNaN(sd) {
			z /= sd
		}
		points[i] = QQPoint{
			Theoretical: distuv.UnitNormal.Quantile((float64(i) + 0.5) / float64(n)),
			Sample:      z,
		}
	}
	return points
}

package chart

import (
	"sort"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
)

// MissingLabel groups points whose colour field is absent
const MissingLabel = "(missing)"

// ScatterView is the user's choice of axes and colour field.
// ColorBy may be empty for a single series.
type ScatterView struct {
	X       core.FieldKey `json:"x"`
	Y       core.FieldKey `json:"y"`
	ColorBy core.FieldKey `json:"color_by,omitempty"`
}

// ScatterPoint is one plotted record
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterSeries holds the points sharing one colour label
type ScatterSeries struct {
	Label  string         `json:"label"`
	Points []ScatterPoint `json:"points"`
}

// ScatterSpec describes a scatter chart independently of how it is drawn
type ScatterSpec struct {
	View    ScatterView     `json:"view"`
	Series  []ScatterSeries `json:"series"`
	Dropped int             `json:"dropped"`
}

// Len returns the number of plotted points across all series
func (s *ScatterSpec) Len() int {
	n := 0
	for _, series := range s.Series {
		n += len(series.Points)
	}
	return n
}

// Project turns a view into a chart description. Rows missing either axis
// are dropped and counted. Series are ordered by label with the missing
// colour group last. The result depends only on ds and view.
func Project(ds *dataset.Dataset, view ScatterView) (*ScatterSpec, error) {
	for _, key := range []core.FieldKey{view.X, view.Y} {
		f, ok := ds.Schema().Lookup(key)
		if !ok {
			return nil, core.NewMissingColumnError(string(key))
		}
		if f.Kind != dataset.KindNumeric {
			return nil, core.NewNonNumericError(string(key))
		}
	}
	if view.ColorBy != "" {
		if _, ok := ds.Schema().Lookup(view.ColorBy); !ok {
			return nil, core.NewMissingColumnError(string(view.ColorBy))
		}
	}

	spec := &ScatterSpec{View: view}
	byLabel := make(map[string][]ScatterPoint)
	for i := 0; i < ds.Len(); i++ {
		r := ds.Record(i)
		x, okX := r.Get(view.X).Float()
		y, okY := r.Get(view.Y).Float()
		if !okX || !okY {
			spec.Dropped++
			continue
		}
		label := ""
		if view.ColorBy != "" {
			var ok bool
			if label, ok = r.Get(view.ColorBy).Label(); !ok {
				label = MissingLabel
			}
		}
		byLabel[label] = append(byLabel[label], ScatterPoint{X: x, Y: y})
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if (labels[i] == MissingLabel) != (labels[j] == MissingLabel) {
			return labels[j] == MissingLabel
		}
		return labels[i] < labels[j]
	})
	for _, label := range labels {
		spec.Series = append(spec.Series, ScatterSeries{Label: label, Points: byLabel[label]})
	}
	return spec, nil
}

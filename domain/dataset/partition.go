package dataset

import (
	"cardiostat/domain/core"
)

// Group is one side of a binary partition
type Group struct {
	Label   string   `json:"label"`
	Records *Dataset `json:"-"`
}

// Partition splits a dataset by a field with exactly two observed labels.
// Records with a missing label belong to neither group.
type Partition struct {
	Field   core.FieldKey `json:"field"`
	A       Group         `json:"group_a"`
	B       Group         `json:"group_b"`
	Dropped int           `json:"dropped"`
}

// Partition groups records by key. Group A carries the lexicographically smaller label.
func (d *Dataset) Partition(key core.FieldKey) (*Partition, error) {
	cats, err := d.Categories(key)
	if err != nil {
		return nil, err
	}
	if len(cats) != 2 {
		return nil, core.NewGroupingError(string(key), len(cats))
	}

	a := d.Filter(Equals(key, cats[0].Label))
	b := d.Filter(Equals(key, cats[1].Label))

	return &Partition{
		Field:   key,
		A:       Group{Label: cats[0].Label, Records: a},
		B:       Group{Label: cats[1].Label, Records: b},
		Dropped: d.Len() - a.Len() - b.Len(),
	}, nil
}

// Numeric extracts the non-missing values of key from both groups
func (p *Partition) Numeric(key core.FieldKey) (a, b []float64, err error) {
	if a, err = p.A.Records.Numeric(key); err != nil {
		return nil, nil, err
	}
	if b, err = p.B.Records.Numeric(key); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

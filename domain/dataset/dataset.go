package dataset

import (
	"math/rand"
	"sort"

	"cardiostat/domain/core"
)

// Dataset is an immutable ordered sequence of records sharing one schema.
// Operations that select rows return a new Dataset; records are shared, never mutated.
type Dataset struct {
	Name        string    `json:"name"`
	Fingerprint core.Hash `json:"fingerprint,omitempty"`
	schema      Schema
	records     []Record
}

// New creates a dataset over records
func New(name string, schema Schema, records []Record) *Dataset {
	return &Dataset{Name: name, schema: schema, records: records}
}

// WithFingerprint returns a copy carrying the content hash of the source file
func (d *Dataset) WithFingerprint(h core.Hash) *Dataset {
	cp := *d
	cp.Fingerprint = h
	return &cp
}

// Schema returns the dataset schema
func (d *Dataset) Schema() Schema { return d.schema }

// Len returns the number of records
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the i-th record
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Filter returns the records matching pred, in order
func (d *Dataset) Filter(pred Predicate) *Dataset {
	out := make([]Record, 0, len(d.records))
	for _, r := range d.records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return &Dataset{Name: d.Name, Fingerprint: d.Fingerprint, schema: d.schema, records: out}
}

// Column returns every value of key in row order, missing values included
func (d *Dataset) Column(key core.FieldKey) ([]Value, error) {
	if _, ok := d.schema.Lookup(key); !ok {
		return nil, core.NewMissingColumnError(string(key))
	}
	out := make([]Value, len(d.records))
	for i, r := range d.records {
		out[i] = r.Get(key)
	}
	return out, nil
}

// Numeric returns the non-missing values of a numeric column
func (d *Dataset) Numeric(key core.FieldKey) ([]float64, error) {
	f, ok := d.schema.Lookup(key)
	if !ok {
		return nil, core.NewMissingColumnError(string(key))
	}
	if f.Kind != KindNumeric {
		return nil, core.NewNonNumericError(string(key))
	}
	out := make([]float64, 0, len(d.records))
	for _, r := range d.records {
		if v, ok := r.Get(key).Float(); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Pairs returns aligned values of two numeric columns for rows where both are present
func (d *Dataset) Pairs(x, y core.FieldKey) ([]float64, []float64, error) {
	for _, key := range []core.FieldKey{x, y} {
		f, ok := d.schema.Lookup(key)
		if !ok {
			return nil, nil, core.NewMissingColumnError(string(key))
		}
		if f.Kind != KindNumeric {
			return nil, nil, core.NewNonNumericError(string(key))
		}
	}
	xs := make([]float64, 0, len(d.records))
	ys := make([]float64, 0, len(d.records))
	for _, r := range d.records {
		xv, okX := r.Get(x).Float()
		yv, okY := r.Get(y).Float()
		if okX && okY {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys, nil
}

// MissingCount returns how many records lack a value for key
func (d *Dataset) MissingCount(key core.FieldKey) (int, error) {
	if _, ok := d.schema.Lookup(key); !ok {
		return 0, core.NewMissingColumnError(string(key))
	}
	n := 0
	for _, r := range d.records {
		if r.Get(key).IsMissing {
			n++
		}
	}
	return n, nil
}

// CategoryCount is the number of records carrying one label
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Categories counts the non-missing labels of key, sorted by label
func (d *Dataset) Categories(key core.FieldKey) ([]CategoryCount, error) {
	if _, ok := d.schema.Lookup(key); !ok {
		return nil, core.NewMissingColumnError(string(key))
	}
	counts := make(map[string]int)
	for _, r := range d.records {
		if label, ok := r.Get(key).Label(); ok {
			counts[label]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, CategoryCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// Sample draws n records without replacement using a seeded source.
// Row order of the sample follows the original order.
func (d *Dataset) Sample(n int, seed int64) *Dataset {
	if n <= 0 || n >= len(d.records) {
		return d.Filter(func(Record) bool { return true })
	}
	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(d.records))[:n]
	sort.Ints(idx)
	out := make([]Record, n)
	for i, j := range idx {
		out[i] = d.records[j]
	}
	return &Dataset{Name: d.Name, Fingerprint: d.Fingerprint, schema: d.schema, records: out}
}

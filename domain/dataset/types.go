package dataset

import (
	"cardiostat/domain/core"
)

// FieldKind classifies a column
type FieldKind string

const (
	KindNumeric     FieldKind = "numeric"
	KindCategorical FieldKind = "categorical"
)

// Field describes one column of the schema
type Field struct {
	Key  core.FieldKey `json:"key"`
	Kind FieldKind     `json:"kind"`
}

// Schema is the ordered field set shared by every record of a dataset
type Schema struct {
	fields []Field
	index  map[core.FieldKey]int
}

// NewSchema builds a schema; later duplicates of a key are ignored
func NewSchema(fields ...Field) Schema {
	s := Schema{index: make(map[core.FieldKey]int, len(fields))}
	for _, f := range fields {
		if _, dup := s.index[f.Key]; dup {
			continue
		}
		s.index[f.Key] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Fields returns a copy of the fields in column order
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the field for key
func (s Schema) Lookup(key core.FieldKey) (Field, bool) {
	i, ok := s.index[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Keys returns the field keys of the given kind, or all keys when kind is empty
func (s Schema) Keys(kind FieldKind) []core.FieldKey {
	var keys []core.FieldKey
	for _, f := range s.fields {
		if kind == "" || f.Kind == kind {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Len returns the number of fields
func (s Schema) Len() int {
	return len(s.fields)
}

// Record is one row. Fields absent from the map are treated as missing.
type Record map[core.FieldKey]Value

// Get returns the value for key, or a missing value when absent
func (r Record) Get(key core.FieldKey) Value {
	v, ok := r[key]
	if !ok {
		return NewMissingValue()
	}
	return v
}

// Predicate selects records
type Predicate func(Record) bool

// Equals selects records whose label for key equals label
func Equals(key core.FieldKey, label string) Predicate {
	return func(r Record) bool {
		l, ok := r.Get(key).Label()
		return ok && l == label
	}
}

// Present selects records where key is not missing
func Present(key core.FieldKey) Predicate {
	return func(r Record) bool {
		return !r.Get(key).IsMissing
	}
}

// And combines predicates
func And(preds ...Predicate) Predicate {
	return func(r Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

package dataset

import (
	"strconv"
)

// ValueType defines the storage type for a cell
type ValueType string

const (
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeString  ValueType = "string"
	ValueTypeMissing ValueType = "missing"
)

// Value is a single typed cell. Missing cells are kept as such and never imputed.
type Value struct {
	Type       ValueType `json:"type"`
	NumericVal *float64  `json:"numeric_val,omitempty"`
	StringVal  *string   `json:"string_val,omitempty"`
	IsMissing  bool      `json:"is_missing"`
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewStringValue creates a categorical value; the empty string is missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// Float returns the numeric payload and whether one is present
func (v Value) Float() (float64, bool) {
	if v.IsMissing || v.NumericVal == nil {
		return 0, false
	}
	return *v.NumericVal, true
}

// Label returns the value as a category label. Numeric values use the
// shortest representation so that 0/1 flags group as "0" and "1".
func (v Value) Label() (string, bool) {
	switch {
	case v.IsMissing:
		return "", false
	case v.StringVal != nil:
		return *v.StringVal, true
	case v.NumericVal != nil:
		return strconv.FormatFloat(*v.NumericVal, 'g', -1, 64), true
	}
	return "", false
}

// String returns the string representation of the value
func (v Value) String() string {
	if label, ok := v.Label(); ok {
		return label
	}
	return "<missing>"
}

package coercer

import (
	"math"
	"strconv"
	"strings"

	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
)

// TypeCoercer infers column kinds and converts raw cells into typed values
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64                             `json:"numeric_threshold"` // share of non-missing cells that must parse as numbers
	MissingMarkers   []string                            `json:"missing_markers"`   // case-insensitive NA spellings
	KnownKinds       map[core.FieldKey]dataset.FieldKind `json:"known_kinds"`       // overrides inference per column
}

// DefaultCoercionConfig returns defaults tuned for the heart-disease table
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.8,
		MissingMarkers:   []string{"", "na", "n/a", "nan", "null", "none", "?"},
		KnownKinds:       HeartDiseaseKinds(),
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// TypeAnalysis summarises how the cells of one column parse
type TypeAnalysis struct {
	TotalCount   int               `json:"total_count"`
	MissingCount int               `json:"missing_count"`
	NumericCount int               `json:"numeric_count"`
	NumericRatio float64           `json:"numeric_ratio"`
	Recommended  dataset.FieldKind `json:"recommended"`
}

// AnalyzeColumn decides the kind of a column from its raw cells
func (c *TypeCoercer) AnalyzeColumn(key core.FieldKey, cells []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(cells)}
	for _, cell := range cells {
		if c.IsMissing(cell) {
			analysis.MissingCount++
			continue
		}
		if _, ok := ParseNumeric(cell); ok {
			analysis.NumericCount++
		}
	}

	valid := analysis.TotalCount - analysis.MissingCount
	if valid > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(valid)
	}

	switch kind, known := c.config.KnownKinds[key]; {
	case known:
		analysis.Recommended = kind
	case valid > 0 && analysis.NumericRatio >= c.config.NumericThreshold:
		analysis.Recommended = dataset.KindNumeric
	default:
		analysis.Recommended = dataset.KindCategorical
	}
	return analysis
}

// CoerceValue converts one cell for a column of the given kind. Cells that do
// not parse in a numeric column become missing.
func (c *TypeCoercer) CoerceValue(raw string, kind dataset.FieldKind) dataset.Value {
	if c.IsMissing(raw) {
		return dataset.NewMissingValue()
	}
	if kind == dataset.KindNumeric {
		if v, ok := ParseNumeric(raw); ok {
			return dataset.NewNumericValue(v)
		}
		return dataset.NewMissingValue()
	}
	return dataset.NewStringValue(strings.TrimSpace(raw))
}

// BuildDataset infers a schema from headers and rows and converts every cell.
// rows[i][j] is the cell of headers[j]; short rows are padded with missing.
func (c *TypeCoercer) BuildDataset(name string, headers []string, rows [][]string) *dataset.Dataset {
	fields := make([]dataset.Field, len(headers))
	for j, h := range headers {
		column := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				column[i] = row[j]
			}
		}
		key := core.FieldKey(h)
		fields[j] = dataset.Field{Key: key, Kind: c.AnalyzeColumn(key, column).Recommended}
	}

	records := make([]dataset.Record, len(rows))
	for i, row := range rows {
		rec := make(dataset.Record, len(fields))
		for j, f := range fields {
			raw := ""
			if j < len(row) {
				raw = row[j]
			}
			rec[f.Key] = c.CoerceValue(raw, f.Kind)
		}
		records[i] = rec
	}
	return dataset.New(name, dataset.NewSchema(fields...), records)
}

// IsMissing reports whether a raw cell is one of the configured NA markers
func (c *TypeCoercer) IsMissing(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range c.config.MissingMarkers {
		if v == m {
			return true
		}
	}
	return false
}

// ParseNumeric parses a cell as a finite number. Parentheses denote a
// negative value and a trailing percent sign is dropped.
func ParseNumeric(raw string) (float64, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}
	clean = strings.TrimSuffix(clean, "%")
	clean = strings.ReplaceAll(clean, ",", "")

	v, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

package excel

import (
	"cardiostat/adapters/datareadiness/coercer"
)

// ExcelConfig holds configuration for a tabular data source
type ExcelConfig struct {
	FilePath       string                 `json:"file_path"`
	Sheet          string                 `json:"sheet,omitempty"` // XLSX only; empty means the first sheet
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns sensible defaults for reading the heart-disease table
func DefaultExcelConfig(path string) ExcelConfig {
	return ExcelConfig{
		FilePath:       path,
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}

package excel

// RawRowData represents a row of raw cells as header -> trimmed string
type RawRowData map[string]string

// ExcelData represents the complete raw table read from a CSV or XLSX file
type ExcelData struct {
	Headers []string     // Column headers in file order
	Rows    []RawRowData // Data rows
	Source  string       // File the table came from
	Content []byte       // Raw file bytes, kept for fingerprinting
}

package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardiostat/adapters/datareadiness/coercer"
	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
	"cardiostat/internal"
	apperrors "cardiostat/internal/errors"
	"cardiostat/ports"

	"github.com/xuri/excelize/v2"
)

var _ ports.DatasetSource = (*DataReader)(nil)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader for config.FilePath; the extension picks the format
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, fileType: fileType, logger: logger.With("reader")}
}

// ReadData reads the file into a raw string table
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.config.FilePath)

	content, err := os.ReadFile(r.config.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.WithCode(apperrors.CodeNotFound,
				fmt.Errorf("%s file not found: %s: %w", strings.ToUpper(r.fileType), r.config.FilePath, err))
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.config.FilePath, err)
	}

	var rows [][]string
	start := time.Now()
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows(content)
	default:
		rows, err = ReadCSVRows(bytes.NewReader(content))
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	r.logger.Info("%s read in %.2fms (%d rows)", filepath.Base(r.config.FilePath),
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	data, err := ProcessRows(rows)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	data.Source = r.config.FilePath
	data.Content = content
	return data, nil
}

// Load reads the file and coerces it into a typed dataset
func (r *DataReader) Load() (*dataset.Dataset, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(data.Source), filepath.Ext(data.Source))
	tc := coercer.NewTypeCoercer(r.config.CoercionConfig)
	ds := tc.BuildDataset(name, data.Headers, rowValues(data))

	r.logger.Info("loaded %q: %d records, %d fields (%d numeric)", name, ds.Len(),
		ds.Schema().Len(), len(ds.Schema().Keys(dataset.KindNumeric)))
	return ds.WithFingerprint(core.NewHash(data.Content)), nil
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// ReadCSVRows parses a delimited table. Rows may be ragged; short rows are
// padded with missing cells later.
func ReadCSVRows(in io.Reader) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// ProcessRows converts raw string rows into ExcelData; the first row is the header
func ProcessRows(rows [][]string) (*ExcelData, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("table must have at least a header row and one data row")
	}

	headerRow := rows[0]
	headers := make([]string, 0, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		h := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if h == "" {
			return nil, fmt.Errorf("column %d has an empty header", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column header %q", h)
		}
		seen[h] = true
		headers = append(headers, h)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &ExcelData{Headers: headers, Rows: dataRows}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func rowValues(data *ExcelData) [][]string {
	out := make([][]string, len(data.Rows))
	for i, row := range data.Rows {
		cells := make([]string, len(data.Headers))
		for j, h := range data.Headers {
			cells[j] = row[h]
		}
		out[i] = cells
	}
	return out
}

package excel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cardiostat/domain/core"
	"cardiostat/internal"
	apperrors "cardiostat/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const heartCSV = "\ufeffAge,Gender,Blood Pressure,Heart Disease Status\n" +
	"56,Male,153,No\n" +
	"69,Female,,Yes\n" +
	"\n" +
	"46,Male,NA,No\n" +
	"32,Female,146,\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDataReader_LoadCSV(t *testing.T) {
	path := writeFile(t, "heart.csv", heartCSV)

	ds, err := NewDataReader(DefaultExcelConfig(path), internal.Discard).Load()
	require.NoError(t, err)

	assert.Equal(t, "heart", ds.Name)
	assert.Equal(t, 4, ds.Len(), "blank lines are skipped")
	assert.Equal(t, core.NewHash([]byte(heartCSV)), ds.Fingerprint)

	bp, err := ds.Numeric("Blood Pressure")
	require.NoError(t, err)
	assert.Equal(t, []float64{153, 146}, bp)

	p, err := ds.Partition("Heart Disease Status")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Dropped)
}

func TestDataReader_LoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Age", "BMI", "Heart Disease Status"},
		{56, 24.5, "No"},
		{69, 31.2, "Yes"},
		{46, nil, "No"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewDataReader(DefaultExcelConfig(path), internal.Discard).Load()
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	bmi, err := ds.Numeric("BMI")
	require.NoError(t, err)
	assert.Equal(t, []float64{24.5, 31.2}, bmi)
}

func TestDataReader_Errors(t *testing.T) {
	_, err := NewDataReader(DefaultExcelConfig(filepath.Join(t.TempDir(), "missing.csv")), internal.Discard).ReadData()
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	headerOnly := writeFile(t, "empty.csv", "Age,BMI\n")
	_, err = NewDataReader(DefaultExcelConfig(headerOnly), internal.Discard).ReadData()
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	dup := writeFile(t, "dup.csv", "Age,Age\n1,2\n")
	_, err = NewDataReader(DefaultExcelConfig(dup), internal.Discard).ReadData()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}

func TestProcessRows_RaggedRows(t *testing.T) {
	data, err := ProcessRows([][]string{
		{"A", "B"},
		{"1"},
		{"2", "3", "extra"},
	})
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, RawRowData{"A": "1"}, data.Rows[0])
	assert.Equal(t, RawRowData{"A": "2", "B": "3"}, data.Rows[1])
}

package ingest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "chain.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseWorkbook_BasicChain(t *testing.T) {
	path := writeWorkbook(t, "Chain", [][]interface{}{
		{"Strike", "Type", "Gamma", "Open Interest", "Expiry"},
		{100, "call", 0.05, 1000, "2025-12-19"},
		{105, "put", 0.03, 500, "2025-12-19"},
	})

	result, err := NewParser(nil).ParseWorkbook(path)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 100.0, result.Records[0].Strike)
	assert.Equal(t, 0.05, result.Records[0].Gamma)
	assert.Equal(t, int64(1000), result.Records[0].OpenInterest)
	assert.Equal(t, "2025-12-19", result.Records[0].Expiry)
}

func TestParseWorkbook_HeaderBelowTitleRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"SPX Option Chain Export"},
		{"Generated 2025-08-29"},
		{"Strike", "Gamma", "OI", "Type"},
		{100, 0.05, 1000, "C"},
	})

	result, err := NewParser(nil).ParseWorkbook(path)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 100.0, result.Records[0].Strike)
}

func TestParseWorkbook_NoChainSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"Name", "Value"},
		{"foo", 1},
	})

	_, err := NewParser(nil).ParseWorkbook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "option chain sheet")
}

func TestParseWorkbook_MissingFile(t *testing.T) {
	_, err := NewParser(nil).ParseWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestParseWorkbook_SkipsNonChainSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Notes"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"not a chain"}))

	_, err := f.NewSheet("Options")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Options", "A1", &[]interface{}{"Strike", "Gamma", "Open Int"}))
	for i := 0; i < 3; i++ {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow("Options", cell, &[]interface{}{100 + 5*i, 0.01, 200}))
	}

	path := filepath.Join(t.TempDir(), "multi.xlsx")
	require.NoError(t, f.SaveAs(path))

	result, err := NewParser(nil).ParseWorkbook(path)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Records, 3)
}

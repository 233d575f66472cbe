package esg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/esgscope/esgscope/pkg/esg"
)

func createTestXLSX(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(name)
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "disclosure.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

var sheetRows = [][]string{
	{"path", "year", "value", "unit"},
	{"environmental.energy.total", "2019", "1000", "MWh"},
	{"environmental.energy.total", "2023", "800", ""},
	{"governance.boardComposition.total", "2023", "10", "people"},
	{"", "", "", ""},
	{"governance.boardComposition.outside", "2023", "7", "people"},
}

func TestReadXLSX(t *testing.T) {
	path := createTestXLSX(t, "Metrics", sheetRows)

	raw, err := esg.ReadXLSX(path, esg.XLSXOptions{SheetName: "Metrics", SkipRows: 1})
	require.NoError(t, err)

	doc := esg.Normalize(raw)
	energy := doc.Series("environmental", "energy", "total")
	assert.Equal(t, []int{2019, 2023}, energy.Years)
	assert.Equal(t, []float64{1000, 800}, energy.Values)
	assert.Equal(t, "MWh", energy.Unit)
	assert.Equal(t, []float64{7}, doc.Series("governance", "boardComposition", "outside").Values)
}

func TestDecodeXLSXFromBytes(t *testing.T) {
	path := createTestXLSX(t, "Sheet1", sheetRows)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	raw, err := esg.DecodeXLSX(data, esg.XLSXOptions{SkipRows: 1})
	require.NoError(t, err)
	assert.Contains(t, raw, "environmental")
	assert.Contains(t, raw, "governance")
	assert.NotContains(t, raw, "path")
}

func TestReadXLSXMissingSheet(t *testing.T) {
	path := createTestXLSX(t, "Sheet1", sheetRows)

	_, err := esg.ReadXLSX(path, esg.XLSXOptions{SheetName: "Nope"})
	assert.Error(t, err)

	_, err = esg.ReadXLSX(path, esg.XLSXOptions{SheetIndex: 3})
	assert.Error(t, err)
}

func TestRowsToRaw(t *testing.T) {
	raw, err := esg.RowsToRaw([][]string{
		{"social.employees.global.total", "2022", "1,200"},
		{"social.employees.global.total", "2023", "n/a"},
	})
	require.NoError(t, err)

	leaf := raw["social"].(map[string]any)["employees"].(map[string]any)["global"].(map[string]any)["total"].(map[string]any)
	assert.Equal(t, []any{2022.0, 2023.0}, leaf["years"])
	assert.Equal(t, []any{1200.0, "n/a"}, leaf["values"])
}

func TestRowsToRawConflictingPaths(t *testing.T) {
	_, err := esg.RowsToRaw([][]string{
		{"environmental.energy", "2022", "1"},
		{"environmental.energy.total", "2022", "1"},
	})
	assert.Error(t, err)

	_, err = esg.RowsToRaw([][]string{{"environmental..total", "2022", "1"}})
	assert.Error(t, err)
}

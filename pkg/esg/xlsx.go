package esg

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures spreadsheet decoding.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	SkipRows   int    // number of header rows to skip
}

// DecodeXLSX reads a flat metric sheet into a raw nested document. Each row
// is "path | year | value | unit" where path is dot-separated, for example
// "environmental.energy.total". Rows for the same path append to one series
// in sheet order.
func DecodeXLSX(data []byte, opts XLSXOptions) (map[string]any, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i < opts.SkipRows || row == nil {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}

	return RowsToRaw(rows)
}

// ReadXLSX opens a workbook on disk and decodes it like DecodeXLSX.
func ReadXLSX(path string, opts XLSXOptions) (map[string]any, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i < opts.SkipRows || row == nil {
			continue
		}
		rows = append(rows, rowToStrings(row))
	}

	return RowsToRaw(rows)
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// RowsToRaw builds a raw nested document from "path | year | value | unit"
// rows. Blank rows are skipped. Cells that do not parse as numbers are kept
// as strings so the normalizer can carry the defect through.
func RowsToRaw(rows [][]string) (map[string]any, error) {
	root := map[string]any{}
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		path := strings.Split(strings.TrimSpace(row[0]), ".")
		leaf, err := ensureLeaf(root, path)
		if err != nil {
			return nil, eris.Wrapf(err, "row %d", i+1)
		}

		leaf["years"] = append(leaf["years"].([]any), parseCell(cell(row, 1)))
		leaf["values"] = append(leaf["values"].([]any), parseCell(cell(row, 2)))
		if unit := strings.TrimSpace(cell(row, 3)); unit != "" {
			leaf["unit"] = unit
		}
	}
	return root, nil
}

func ensureLeaf(root map[string]any, path []string) (map[string]any, error) {
	cur := root
	for i, name := range path {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, eris.Errorf("empty segment in path %q", strings.Join(path, "."))
		}
		next, ok := cur[name]
		if !ok {
			m := map[string]any{}
			if i == len(path)-1 {
				m["years"] = []any{}
				m["values"] = []any{}
				m["unit"] = ""
			}
			cur[name] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return nil, eris.Errorf("path %q crosses a non-group", strings.Join(path[:i+1], "."))
		}
		last := i == len(path)-1
		if _, isLeaf := m["values"]; isLeaf != last {
			return nil, eris.Errorf("path %q is used both as a series and as a group", strings.Join(path[:i+1], "."))
		}
		cur = m
	}
	return cur, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return n
	}
	return s
}

// Package xlsxtest builds small xlsx fixtures for tests.
package xlsxtest

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet describes one worksheet. RowFills maps a 1-based row number to the
// "#RRGGBB" background applied to every written cell of that row.
type Sheet struct {
	Name     string
	Rows     [][]any
	RowFills map[int]string
}

// Write saves the sheets, in order, to dir/name and returns the file path.
func Write(t testing.TB, dir, name string, sheets ...Sheet) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := file.NewSheet(sheet.Name); err != nil {
			t.Fatalf("new sheet %s: %v", sheet.Name, err)
		}

		styles := make(map[string]int)
		for r, row := range sheet.Rows {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if value != nil {
					if err := file.SetCellValue(sheet.Name, cell, value); err != nil {
						t.Fatalf("set %s!%s: %v", sheet.Name, cell, err)
					}
				}
				color, ok := sheet.RowFills[r+1]
				if !ok {
					continue
				}
				styleID, ok := styles[color]
				if !ok {
					styleID, err = file.NewStyle(&excelize.Style{
						Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
					})
					if err != nil {
						t.Fatalf("new style: %v", err)
					}
					styles[color] = styleID
				}
				if err := file.SetCellStyle(sheet.Name, cell, cell, styleID); err != nil {
					t.Fatalf("set style %s: %v", cell, err)
				}
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
	return path
}

// Rows reads back every row of a sheet.
func Rows(t testing.TB, path, sheet string) [][]string {
	t.Helper()

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	rows, err := file.GetRows(sheet)
	if err != nil {
		t.Fatalf("read rows of %s: %v", sheet, err)
	}
	return rows
}

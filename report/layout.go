package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"comptesupport/workbook"

	"github.com/xuri/excelize/v2"
)

const (
	DestinationStartRow = 3

	ColumnPadding    = 2.0
	WideSheetPadding = 10.0
	minColumnWidth   = 8.0
	maxColumnWidth   = 120.0
)

// autoFitColumns sizes columns 1..cols to their longest displayed value plus padding.
func autoFitColumns(file *excelize.File, sheet string, cols int, padding float64) error {
	rows, err := file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows of %s: %w", sheet, err)
	}

	for col := 1; col <= cols; col++ {
		longest := 0
		for _, row := range rows {
			if col-1 < len(row) {
				longest = max(longest, utf8.RuneCountInString(row[col-1]))
			}
		}
		width := min(max(float64(longest), minColumnWidth)+padding, maxColumnWidth)
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := file.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set width of %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

// trimRowsAfter deletes every row below lastRow, including placeholder rows
// that only carry styling.
func trimRowsAfter(file *excelize.File, sheet string, lastRow int) error {
	rows, err := file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows of %s: %w", sheet, err)
	}
	last, err := workbook.LastRow(file, sheet)
	if err != nil {
		return err
	}
	bottom := max(len(rows), last)
	for row := bottom; row > lastRow; row-- {
		if err := file.RemoveRow(sheet, row); err != nil {
			return fmt.Errorf("remove row %d of %s: %w", row, sheet, err)
		}
	}
	return nil
}

func parseNumber(raw string) (float64, bool) {
	number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return number, err == nil
}

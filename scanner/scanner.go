package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"comptesupport/internal/dateutil"
	"comptesupport/workbook"
)

// Row is the classification of one source row, read from its first column.
type Row struct {
	Number  int
	Text    string
	Date    time.Time
	HasDate bool
	Color   Color
}

func (r Row) Signature() string {
	return r.Color.Signature()
}

// Scan classifies every row from 1 to the last used row of sheet, in order.
func Scan(ctx context.Context, wb *workbook.Workbook, sheet string) ([]Row, error) {
	grid, err := wb.File.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheet, err)
	}
	if len(grid) == 0 {
		return nil, workbook.Malformed(wb.Path, "sheet %q has no used rows", sheet)
	}
	usedCols := 0
	for _, row := range grid {
		usedCols = max(usedCols, len(row))
	}
	if usedCols == 0 {
		return nil, workbook.Malformed(wb.Path, "sheet %q has no used columns", sheet)
	}

	lastRow, err := workbook.LastRow(wb.File, sheet)
	if err != nil {
		return nil, err
	}
	lastRow = max(lastRow, len(grid))

	rows := make([]Row, 0, lastRow)
	for number := 1; number <= lastRow; number++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := Row{Number: number}
		if number <= len(grid) && len(grid[number-1]) > 0 {
			row.Text = strings.TrimSpace(grid[number-1][0])
		}
		row.Date, row.HasDate = wb.CellDate(sheet, 1, number)
		if !row.HasDate {
			row.Date, row.HasDate = dateutil.ParseText(row.Text)
		}

		fill, err := wb.CellFill(sheet, 1, number)
		if err != nil {
			row.Color = OpaqueColor{Raw: "Unknown"}
		} else {
			row.Color = Classify(fill)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Dates returns the parsed dates of all date rows.
func Dates(rows []Row) []time.Time {
	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if row.HasDate {
			dates = append(dates, row.Date)
		}
	}
	return dates
}

package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"comptesupport/internal/dateutil"

	"github.com/xuri/excelize/v2"
)

// Workbook is an opened xlsx document together with its raw fill table.
type Workbook struct {
	Path  string
	File  *excelize.File
	fills fillTable
}

func Open(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}

	fills, err := readFillTable(path)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &Workbook{Path: path, File: file, fills: fills}, nil
}

func (w *Workbook) Close() error {
	return w.File.Close()
}

// SheetByName finds a sheet by trimmed, case-insensitive name.
func (w *Workbook) SheetByName(name string) (string, bool) {
	return FindSheet(w.File, name)
}

// ResolveSheet returns the named sheet, or the first sheet when name is blank.
func (w *Workbook) ResolveSheet(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		first := w.File.GetSheetName(0)
		if first == "" {
			return "", Malformed(w.Path, "workbook has no sheets")
		}
		return first, nil
	}
	sheet, ok := w.SheetByName(name)
	if !ok {
		return "", Malformed(w.Path, "sheet %q not found", name)
	}
	return sheet, nil
}

// CellFill returns the raw background fill of a cell.
func (w *Workbook) CellFill(sheet string, col, row int) (Fill, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Fill{}, err
	}
	styleID, err := w.File.GetCellStyle(sheet, cell)
	if err != nil {
		return Fill{}, fmt.Errorf("read style of %s!%s: %w", sheet, cell, err)
	}
	return w.fills.lookup(styleID), nil
}

// CellDate returns the date held by a numeric cell carrying a date number format.
func (w *Workbook) CellDate(sheet string, col, row int) (time.Time, bool) {
	return CellDate(w.File, sheet, col, row)
}

func FindSheet(file *excelize.File, name string) (string, bool) {
	want := strings.TrimSpace(name)
	for _, sheet := range file.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(sheet), want) {
			return sheet, true
		}
	}
	return "", false
}

func CellDate(file *excelize.File, sheet string, col, row int) (time.Time, bool) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return time.Time{}, false
	}
	styleID, err := file.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return time.Time{}, false
	}
	style, err := file.GetStyle(styleID)
	if err != nil || !IsDateStyle(style) {
		return time.Time{}, false
	}
	raw, err := file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return time.Time{}, false
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return time.Time{}, false
	}
	parsed, err := dateutil.FromSerial(serial)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// LastRow returns the last row of sheet that holds a value or only a style.
// GetRows stops at the last row with a value.
func LastRow(file *excelize.File, sheet string) (int, error) {
	iter, err := file.Rows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read rows of %s: %w", sheet, err)
	}
	defer iter.Close()

	last := 0
	for iter.Next() {
		last++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("read rows of %s: %w", sheet, err)
	}
	return max(last, dimensionRow(file, sheet)), nil
}

func dimensionRow(file *excelize.File, sheet string) int {
	dimension, err := file.GetSheetDimension(sheet)
	if err != nil || dimension == "" {
		return 0
	}
	parts := strings.Split(dimension, ":")
	_, row, err := excelize.CellNameToCoordinates(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return row
}

// IsDateStyle reports whether a style renders numbers as dates.
func IsDateStyle(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	switch {
	case style.NumFmt >= 14 && style.NumFmt <= 17, style.NumFmt == 22:
		return true
	case style.NumFmt >= 27 && style.NumFmt <= 36:
		return true
	case style.NumFmt >= 50 && style.NumFmt <= 58:
		return true
	}
	return false
}

func isDateFormatCode(code string) bool {
	var cleaned strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			cleaned.WriteRune(r)
		}
	}
	text := cleaned.String()
	return strings.ContainsAny(text, "yd")
}

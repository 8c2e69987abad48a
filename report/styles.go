package report

import (
	"fmt"

	"comptesupport/workbook"

	"github.com/xuri/excelize/v2"
)

const (
	FontFamily = "Calibri"
	FontSize   = 11.0

	SupplementDateFormat = "dd/mm/yyyy"
)

// styleCopier re-creates source styles inside a destination workbook. Style
// IDs are workbook-local, so every source ID maps to a new destination ID.
type styleCopier struct {
	src        *excelize.File
	dst        *excelize.File
	dateFormat string
	cache      map[int]int
}

func newStyleCopier(src, dst *excelize.File, dateFormat string) *styleCopier {
	return &styleCopier{src: src, dst: dst, dateFormat: dateFormat, cache: make(map[int]int)}
}

func (c *styleCopier) translate(srcID int) (int, error) {
	if id, ok := c.cache[srcID]; ok {
		return id, nil
	}

	style, err := c.src.GetStyle(srcID)
	if err != nil {
		return 0, fmt.Errorf("read source style %d: %w", srcID, err)
	}

	clone := *style
	font := excelize.Font{}
	if style.Font != nil {
		font = *style.Font
	}
	font.Family = FontFamily
	font.Size = FontSize
	clone.Font = &font

	if c.dateFormat != "" && workbook.IsDateStyle(style) {
		format := c.dateFormat
		clone.NumFmt = 0
		clone.CustomNumFmt = &format
	}

	id, err := c.dst.NewStyle(&clone)
	if err != nil {
		return 0, fmt.Errorf("create style from source style %d: %w", srcID, err)
	}
	c.cache[srcID] = id
	return id, nil
}

// copyCell copies the raw value and the full style of one cell.
func (c *styleCopier) copyCell(srcSheet string, srcCol, srcRow int, dstSheet string, dstCol, dstRow int) error {
	srcCell, err := excelize.CoordinatesToCellName(srcCol, srcRow)
	if err != nil {
		return err
	}
	dstCell, err := excelize.CoordinatesToCellName(dstCol, dstRow)
	if err != nil {
		return err
	}

	value, err := rawValue(c.src, srcSheet, srcCell)
	if err != nil {
		return err
	}
	if value != nil {
		if err := c.dst.SetCellValue(dstSheet, dstCell, value); err != nil {
			return fmt.Errorf("write %s!%s: %w", dstSheet, dstCell, err)
		}
	}

	srcStyle, err := c.src.GetCellStyle(srcSheet, srcCell)
	if err != nil {
		return fmt.Errorf("read style of %s!%s: %w", srcSheet, srcCell, err)
	}
	dstStyle, err := c.translate(srcStyle)
	if err != nil {
		return err
	}
	if err := c.dst.SetCellStyle(dstSheet, dstCell, dstCell, dstStyle); err != nil {
		return fmt.Errorf("style %s!%s: %w", dstSheet, dstCell, err)
	}
	return nil
}

func rawValue(file *excelize.File, sheet, cell string) (any, error) {
	raw, err := file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", sheet, cell, err)
	}
	if raw == "" {
		return nil, nil
	}

	cellType, err := file.GetCellType(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("read type of %s!%s: %w", sheet, cell, err)
	}
	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true", nil
	case excelize.CellTypeNumber, excelize.CellTypeDate, excelize.CellTypeUnset:
		if number, ok := parseNumber(raw); ok {
			return number, nil
		}
	}
	return raw, nil
}

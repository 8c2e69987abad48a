package report

import (
	"fmt"
	"strings"

	"comptesupport/workbook"

	"github.com/xuri/excelize/v2"
)

const DefaultSupplementColumn = "NOM DU PARTENAIRE"

// SupplementOptions selects the auxiliary source sheets filtered per partner.
type SupplementOptions struct {
	Sheets []string
	// Column is the header naming the partner on each supplement sheet.
	Column string
	// RegeneratedSheet is replaced when the template already has it; any
	// other sheet already present in the template is left untouched.
	RegeneratedSheet string
	// WideSheet gets WideSheetPadding on top of the usual column padding.
	WideSheet string
}

// InjectSupplement copies, for every configured sheet, the header row and the
// rows whose partner column equals partnerName, ignoring case only,
// into dst. Sheets missing from src, lacking the partner column or without a
// matching row are skipped. It returns the names of the sheets written.
func InjectSupplement(src, dst *excelize.File, partnerName string, opts SupplementOptions) ([]string, error) {
	column := strings.TrimSpace(opts.Column)
	if column == "" {
		column = DefaultSupplementColumn
	}
	want := partnerName

	var injected []string
	for _, name := range opts.Sheets {
		srcSheet, ok := workbook.FindSheet(src, name)
		if !ok {
			continue
		}
		rows, err := src.GetRows(srcSheet)
		if err != nil {
			return injected, fmt.Errorf("read rows from sheet %s: %w", srcSheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		partnerCol := -1
		for i, header := range rows[0] {
			if strings.EqualFold(strings.TrimSpace(header), column) {
				partnerCol = i
				break
			}
		}
		if partnerCol < 0 {
			continue
		}

		matched := make([]int, 0)
		cols := len(rows[0])
		for i := 1; i < len(rows); i++ {
			if partnerCol < len(rows[i]) && strings.EqualFold(rows[i][partnerCol], want) {
				matched = append(matched, i+1)
				cols = max(cols, len(rows[i]))
			}
		}
		if len(matched) == 0 {
			continue
		}

		if existing, exists := workbook.FindSheet(dst, srcSheet); exists {
			if !sameSheet(existing, opts.RegeneratedSheet) {
				continue
			}
			if err := dst.DeleteSheet(existing); err != nil {
				return injected, fmt.Errorf("delete sheet %s: %w", existing, err)
			}
		}
		if _, err := dst.NewSheet(srcSheet); err != nil {
			return injected, fmt.Errorf("create sheet %s: %w", srcSheet, err)
		}

		styles := newStyleCopier(src, dst, SupplementDateFormat)
		sourceRows := append([]int{1}, matched...)
		for i, srcRow := range sourceRows {
			for col := 1; col <= cols; col++ {
				if err := styles.copyCell(srcSheet, col, srcRow, srcSheet, col, i+1); err != nil {
					return injected, fmt.Errorf("copy supplement row %d: %w", srcRow, err)
				}
			}
		}

		padding := ColumnPadding
		if sameSheet(srcSheet, opts.WideSheet) {
			padding += WideSheetPadding
		}
		if err := autoFitColumns(dst, srcSheet, cols, padding); err != nil {
			return injected, err
		}
		injected = append(injected, srcSheet)
	}
	return injected, nil
}

func sameSheet(a, b string) bool {
	return strings.TrimSpace(b) != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

package output

import (
	"fmt"

	"comptesupport/partner"

	"github.com/xuri/excelize/v2"
)

const routesSheet = "Routage"

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, routes []partner.Route) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), routesSheet); err != nil {
		return fmt.Errorf("rename routing sheet: %w", err)
	}

	header, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := file.SetSheetRow(routesSheet, "A1", &routeHeaders); err != nil {
		return fmt.Errorf("set excel headers: %w", err)
	}
	if err := file.SetRowStyle(routesSheet, 1, 1, header); err != nil {
		return fmt.Errorf("style excel headers: %w", err)
	}

	for i, route := range routes {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := routeValues(route)
		if err := file.SetSheetRow(routesSheet, cell, &values); err != nil {
			return fmt.Errorf("set excel row %s: %w", cell, err)
		}
	}

	if err := file.SetPanes(routesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header row: %w", err)
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

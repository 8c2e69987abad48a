package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"comptesupport/partner"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, routes []partner.Route) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'
	defer writer.Flush()

	if err := writer.Write(routeHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, route := range routes {
		if err := writer.Write(routeValues(route)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

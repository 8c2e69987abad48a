package dateutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const LabelLayout = "02.01.2006"

var textLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-2006",
	"02.01.06",
	"02/01/06",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04",
	"02/01/2006 15:04:05",
}

// ParseText parses a cell's display text as a date. Day-first layouts are tried
// before ISO ones.
func ParseText(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range textLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return StartOfDay(parsed), true
		}
	}
	return time.Time{}, false
}

// FromSerial converts an Excel serial day number to a date.
func FromSerial(serial float64) (time.Time, error) {
	if serial <= 0 {
		return time.Time{}, fmt.Errorf("excel serial %v out of range", serial)
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("convert excel serial %v: %w", serial, err)
	}
	return StartOfDay(parsed), nil
}

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

// RangeLabel renders the span of dates as "min" or "min au max".
func RangeLabel(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	minDate, maxDate := dates[0], dates[0]
	for _, value := range dates[1:] {
		if value.Before(minDate) {
			minDate = value
		}
		if value.After(maxDate) {
			maxDate = value
		}
	}
	if minDate.Equal(maxDate) {
		return minDate.Format(LabelLayout)
	}
	return minDate.Format(LabelLayout) + " au " + maxDate.Format(LabelLayout)
}

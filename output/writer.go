package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"comptesupport/partner"
)

var routeHeaders = []string{"File", "Partner", "Recipients", "Path"}

type Writer interface {
	Write(path string, routes []partner.Route) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriterForPath picks the writer from the file extension of path.
func WriterForPath(path string) (Writer, error) {
	return WriterForFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func routeValues(route partner.Route) []string {
	return []string{
		route.FileName,
		route.PartnerName,
		strings.Join(route.RecipientEmails, "; "),
		route.FilePath,
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

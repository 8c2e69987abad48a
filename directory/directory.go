package directory

import (
	"regexp"
	"strings"

	"comptesupport/internal/textnorm"
	"comptesupport/partner"
	"comptesupport/workbook"

	"go.uber.org/zap"
)

const (
	HeaderPartnerName = "NOM DU PARTENAIRE"
	HeaderAddresses   = "ADRESSES"

	headerSearchRows = 10
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)
	siglePattern = regexp.MustCompile(`\(([^()]*)\)`)
)

type Result struct {
	Partners    []partner.Record
	RowsRead    int
	RowsMerged  int
	RowsSkipped int
}

// Load reads a directory document (xlsx or csv) and parses its partners.
func Load(path, format string, logger *zap.Logger) (*Result, error) {
	resolved, err := inferFormat(path, format)
	if err != nil {
		return nil, err
	}
	reader, err := ReaderForFormat(resolved)
	if err != nil {
		return nil, err
	}
	rows, err := reader.Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(rows, path, logger)
}

// Parse builds partner records from the raw grid of a directory document.
// Records are returned in order of first appearance; rows repeating a name
// (case-insensitive) merge their addresses into the earlier record.
func Parse(rows [][]string, source string, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if countUsedRows(rows) < 2 {
		return nil, workbook.Malformed(source, "directory needs a header row and at least one data row")
	}

	nameRow, nameCol, ok := findHeader(rows, HeaderPartnerName)
	if !ok {
		return nil, workbook.Malformed(source, "header %q not found in the first %d rows", HeaderPartnerName, headerSearchRows)
	}
	addrRow, addrCol, ok := findHeader(rows, HeaderAddresses)
	if !ok {
		return nil, workbook.Malformed(source, "header %q not found in the first %d rows", HeaderAddresses, headerSearchRows)
	}
	headerRow := max(nameRow, addrRow)

	result := &Result{Partners: make([]partner.Record, 0, len(rows))}
	byName := make(map[string]int, len(rows))
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		result.RowsRead++

		name := strings.TrimSpace(cellAt(row, nameCol))
		if name == "" {
			result.RowsSkipped++
			continue
		}
		emails := ExtractEmails(cellAt(row, addrCol))
		if len(emails) == 0 {
			logger.Debug("directory row has no email address", zap.Int("row", i+1), zap.String("partner", name))
			result.RowsSkipped++
			continue
		}

		key := strings.ToLower(name)
		if idx, exists := byName[key]; exists {
			result.Partners[idx].AddEmails(emails...)
			result.RowsMerged++
			continue
		}

		record := NewRecord(name)
		record.AddEmails(emails...)
		byName[key] = len(result.Partners)
		result.Partners = append(result.Partners, record)
	}

	return result, nil
}

// NewRecord derives the searchable keys of a partner display name.
func NewRecord(name string) partner.Record {
	return partner.Record{
		Name:            name,
		Emails:          []string{},
		SearchableFull:  textnorm.Normalize(name),
		SearchableSigle: extractSigle(name),
	}
}

// ExtractEmails returns every email-shaped token of a free-form cell.
func ExtractEmails(value string) []string {
	return emailPattern.FindAllString(value, -1)
}

func extractSigle(name string) string {
	matches := siglePattern.FindAllStringSubmatch(name, -1)
	if len(matches) == 0 {
		return ""
	}
	return textnorm.Normalize(strings.TrimSpace(matches[len(matches)-1][1]))
}

func findHeader(rows [][]string, header string) (int, int, bool) {
	limit := min(len(rows), headerSearchRows)
	for r := 0; r < limit; r++ {
		for c, value := range rows[r] {
			if strings.EqualFold(strings.TrimSpace(value), header) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

func countUsedRows(rows [][]string) int {
	used := 0
	for _, row := range rows {
		for _, value := range row {
			if strings.TrimSpace(value) != "" {
				used++
				break
			}
		}
	}
	return used
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

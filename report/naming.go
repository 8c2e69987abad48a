package report

import (
	"strings"
)

const FilePrefix = "COMPTE SUPPORT"

// FileName builds the deterministic output name of a partner report.
func FileName(partnerName, dateRangeLabel string) string {
	return FilePrefix + " " + SanitizeFileName(partnerName) + " du " + SanitizeFileName(dateRangeLabel) + ".xlsx"
}

// SanitizeFileName drops characters that are invalid in file names on common
// platforms and collapses the remaining whitespace.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 32 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, name)
	return strings.Join(strings.Fields(cleaned), " ")
}

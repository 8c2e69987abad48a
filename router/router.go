package router

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"comptesupport/internal/textnorm"
	"comptesupport/partner"

	"go.uber.org/zap"
)

// Result is the routing table of one run plus the files that produced none.
type Result struct {
	Routes    []partner.Route
	Unmatched []string
	// NoEmail lists files whose matched partner has no address.
	NoEmail []string
}

// ListFiles returns the regular files directly inside dir, sorted by name.
// Office lock files ("~$...") are ignored.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Route attributes each file to the first partner whose normalized full name,
// or failing that its sigle, appears as a whole word in the normalized file
// stem. Files are handled in the given order and claimed at most once.
func Route(ctx context.Context, files []string, partners []partner.Record, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &Result{}
	claimed := make(map[string]struct{}, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, ok := claimed[path]; ok {
			continue
		}

		name := filepath.Base(path)
		stem := textnorm.Normalize(strings.TrimSuffix(name, filepath.Ext(name)))
		match, ok := firstMatch(stem, partners)
		if !ok {
			logger.Debug("no partner matches file", zap.String("file", name))
			result.Unmatched = append(result.Unmatched, name)
			continue
		}

		claimed[path] = struct{}{}
		if len(match.Emails) == 0 {
			logger.Warn("matched partner has no email", zap.String("file", name), zap.String("partner", match.Name))
			result.NoEmail = append(result.NoEmail, name)
			continue
		}

		result.Routes = append(result.Routes, partner.Route{
			FileName:        name,
			FilePath:        path,
			PartnerName:     match.Name,
			RecipientEmails: append([]string(nil), match.Emails...),
		})
	}
	return result, nil
}

func firstMatch(stem string, partners []partner.Record) (partner.Record, bool) {
	for _, candidate := range partners {
		if textnorm.ContainsWord(stem, candidate.SearchableFull) {
			return candidate, true
		}
		if candidate.HasSigle() && textnorm.ContainsWord(stem, candidate.SearchableSigle) {
			return candidate, true
		}
	}
	return partner.Record{}, false
}

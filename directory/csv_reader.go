package directory

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads ';' or ',' separated exports. UTF-16 files with a BOM are
// decoded to UTF-8 first.
type CSVReader struct{}

func (r *CSVReader) Read(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	content, err := io.ReadAll(transform.NewReader(file, decoder))
	if err != nil {
		return nil, fmt.Errorf("decode csv file %s: %w", path, err)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectSeparator(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectSeparator picks ';' when the first line holds more semicolons than commas.
func detectSeparator(content []byte) rune {
	semicolons, commas := 0, 0
	for _, b := range content {
		if b == '\n' {
			break
		}
		switch b {
		case ';':
			semicolons++
		case ',':
			commas++
		}
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

package segment

import (
	"fmt"

	"comptesupport/scanner"
)

// Block is an inclusive, contiguous row range attributed to one partner.
type Block struct {
	StartRow int
	EndRow   int
}

func (b Block) String() string {
	return fmt.Sprintf("%d-%d", b.StartRow, b.EndRow)
}

func (b Block) Len() int {
	return b.EndRow - b.StartRow + 1
}

// Segment splits classified rows into partner blocks. Without any date row it
// returns nil. The first block opens one row above the first date row; a new
// block opens on every highlighted row that is not a date row. Blocks are
// ordered, disjoint and cover [first block start, last row].
func Segment(rows []scanner.Row) []Block {
	firstDate := 0
	for _, row := range rows {
		if row.HasDate {
			firstDate = row.Number
			break
		}
	}
	if firstDate == 0 {
		return nil
	}

	lastRow := rows[len(rows)-1].Number
	currentStart := max(1, firstDate-1)
	blocks := make([]Block, 0, 16)
	for _, row := range rows {
		if !isBoundary(row, currentStart) {
			continue
		}
		blocks = append(blocks, Block{StartRow: currentStart, EndRow: row.Number - 1})
		currentStart = row.Number
	}
	blocks = append(blocks, Block{StartRow: currentStart, EndRow: lastRow})
	return blocks
}

func isBoundary(row scanner.Row, currentStart int) bool {
	if row.HasDate || row.Number <= currentStart {
		return false
	}
	return row.Color != nil && !scanner.IsNoFill(row.Color)
}

// SelectRange clamps start to [0, len-1] and count to [1, len-start] and
// returns that window of blocks.
func SelectRange(blocks []Block, start, count int) []Block {
	total := len(blocks)
	if total == 0 {
		return nil
	}
	start = min(max(start, 0), total-1)
	count = max(1, min(count, total-start))
	return blocks[start : start+count]
}

package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"comptesupport/segment"
	"comptesupport/workbook"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Assembler produces one report workbook per partner block.
type Assembler struct {
	Source       *workbook.Workbook
	Sheet        string
	TemplatePath string
	OutputDir    string
	Supplement   SupplementOptions
	Logger       *zap.Logger

	grid [][]string
}

// NewAssembler reads the source sheet once so every block reuses the same grid.
func NewAssembler(source *workbook.Workbook, sheet, templatePath, outputDir string, supplement SupplementOptions, logger *zap.Logger) (*Assembler, error) {
	grid, err := source.File.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheet, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		Source:       source,
		Sheet:        sheet,
		TemplatePath: templatePath,
		OutputDir:    outputDir,
		Supplement:   supplement,
		Logger:       logger,
		grid:         grid,
	}, nil
}

// PartnerName is the trimmed first-column text of the block's first row.
func (a *Assembler) PartnerName(block segment.Block) string {
	index := block.StartRow - 1
	if index < 0 || index >= len(a.grid) || len(a.grid[index]) == 0 {
		return ""
	}
	return strings.TrimSpace(a.grid[index][0])
}

func (a *Assembler) usedColumns(block segment.Block) int {
	cols := 0
	for row := block.StartRow; row <= block.EndRow && row-1 < len(a.grid); row++ {
		cols = max(cols, len(a.grid[row-1]))
	}
	return cols
}

// Assemble copies the block into a fresh template copy and saves it under
// OutputDir. It returns the written path.
func (a *Assembler) Assemble(ctx context.Context, block segment.Block, dateRangeLabel string) (string, error) {
	partnerName := a.PartnerName(block)
	if partnerName == "" {
		return "", fmt.Errorf("block %s has no partner name in its first row", block)
	}

	dst, err := excelize.OpenFile(a.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("open template %s: %w", a.TemplatePath, err)
	}
	defer dst.Close()

	dstSheet := dst.GetSheetName(0)
	if dstSheet == "" {
		return "", fmt.Errorf("template %s has no sheets", a.TemplatePath)
	}

	cols := a.usedColumns(block)
	styles := newStyleCopier(a.Source.File, dst, "")
	for row := block.StartRow; row <= block.EndRow; row++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		dstRow := DestinationStartRow + row - block.StartRow
		for col := 1; col <= cols; col++ {
			if err := styles.copyCell(a.Sheet, col, row, dstSheet, col, dstRow); err != nil {
				return "", fmt.Errorf("copy row %d: %w", row, err)
			}
		}
	}

	lastRow := DestinationStartRow + block.Len() - 1
	if err := trimRowsAfter(dst, dstSheet, lastRow); err != nil {
		return "", err
	}
	if err := autoFitColumns(dst, dstSheet, cols, ColumnPadding); err != nil {
		return "", err
	}

	injected, err := InjectSupplement(a.Source.File, dst, partnerName, a.Supplement)
	if err != nil {
		return "", fmt.Errorf("inject supplement sheets: %w", err)
	}

	if err := os.MkdirAll(a.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", a.OutputDir, err)
	}
	path := filepath.Join(a.OutputDir, FileName(partnerName, dateRangeLabel))
	if err := dst.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report %s: %w", path, err)
	}

	a.Logger.Debug("report written",
		zap.String("partner", partnerName),
		zap.Int("start_row", block.StartRow),
		zap.Int("end_row", block.EndRow),
		zap.Strings("supplements", injected),
		zap.String("path", path),
	)
	return path, nil
}

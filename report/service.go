package report

import (
	"context"
	"errors"
	"fmt"
	"os"

	"comptesupport/internal/dateutil"
	"comptesupport/progress"
	"comptesupport/scanner"
	"comptesupport/segment"
	"comptesupport/workbook"

	"go.uber.org/zap"
)

const (
	DefaultStartIndex = 0
	DefaultCount      = 3
)

type Options struct {
	SourcePath   string
	Sheet        string
	TemplatePath string
	OutputDir    string
	StartIndex   int
	Count        int
	Supplement   SupplementOptions
	Progress     progress.Sink
	Logger       *zap.Logger
}

// BlockOutcome is the result of generating one block: a path on success,
// an error otherwise.
type BlockOutcome struct {
	Index   int
	Block   segment.Block
	Partner string
	Path    string
	Err     error
}

func (o BlockOutcome) Succeeded() bool {
	return o.Err == nil
}

type Summary struct {
	RowsScanned    int
	BlocksFound    int
	DateRangeLabel string
	Outcomes       []BlockOutcome
}

func (s *Summary) Generated() int {
	count := 0
	for _, outcome := range s.Outcomes {
		if outcome.Succeeded() {
			count++
		}
	}
	return count
}

func (s *Summary) Failed() int {
	return len(s.Outcomes) - s.Generated()
}

// Run scans the source sheet, segments it into partner blocks and writes one
// report per selected block. Malformed input fails before any block is
// written; per-block failures are recorded as outcomes. Cancellation stops
// the run and returns the context error with the outcomes gathered so far.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := progress.NewNotifier(opts.Progress, logger)

	if _, err := os.Stat(opts.TemplatePath); err != nil {
		return nil, fmt.Errorf("stat template %s: %w", opts.TemplatePath, err)
	}

	source, err := workbook.Open(opts.SourcePath)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	sheet, err := source.ResolveSheet(opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := scanner.Scan(ctx, source, sheet)
	if err != nil {
		if isCancellation(err) {
			notifier.Notify(0, 0, "cancelled")
		}
		return nil, err
	}

	blocks := segment.Segment(rows)
	summary := &Summary{RowsScanned: len(rows), BlocksFound: len(blocks)}
	if len(blocks) == 0 {
		logger.Info("no date rows found, nothing to generate", zap.String("sheet", sheet))
		return summary, nil
	}
	summary.DateRangeLabel = dateutil.RangeLabel(scanner.Dates(rows))

	selected := segment.SelectRange(blocks, opts.StartIndex, opts.Count)
	assembler, err := NewAssembler(source, sheet, opts.TemplatePath, opts.OutputDir, opts.Supplement, logger)
	if err != nil {
		return nil, err
	}

	total := len(selected)
	for i, block := range selected {
		if err := ctx.Err(); err != nil {
			notifier.Notify(i, total, "cancelled")
			return summary, err
		}

		outcome := BlockOutcome{Index: i, Block: block, Partner: assembler.PartnerName(block)}
		outcome.Path, outcome.Err = assembler.Assemble(ctx, block, summary.DateRangeLabel)
		if outcome.Err != nil && isCancellation(outcome.Err) {
			notifier.Notify(i, total, "cancelled")
			return summary, outcome.Err
		}
		if outcome.Err != nil {
			logger.Error("generate partner report",
				zap.String("partner", outcome.Partner),
				zap.Int("start_row", block.StartRow),
				zap.Int("end_row", block.EndRow),
				zap.Error(outcome.Err),
			)
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
		notifier.Notify(i+1, total, outcome.Partner)
	}

	return summary, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"comptesupport/config"
	"comptesupport/progress"
	"comptesupport/report"
	"comptesupport/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateSource      string
	generateSheet       string
	generateTemplate    string
	generateOutputDir   string
	generateStart       int
	generateCount       int
	generateSupplements []string
	generateDBPath      string
	generateQuiet       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one report per partner block of a source workbook",
	Long: `Scan the source sheet, split it into partner blocks and write one report per
selected block from the configured template.

A block opens one row above the first date row of the sheet; every highlighted row
that is not a date starts a new block. --start and --count select a window of blocks
(clamped to the available range). Rows are copied from row 3 of the template onward,
and configured supplement sheets are filtered by partner name and appended.

A block that fails is reported and skipped; Ctrl+C stops the run after the current row.`,
	Example: `
  # Generate the first three partner reports
  comptesupport generate -s ./RELEVE.xlsx

  # Generate blocks 4 to 10 from a named sheet
  comptesupport generate -s ./RELEVE.xlsx --sheet "Feuil1" --start 3 --count 7

  # Override template and output directory
  comptesupport generate -s ./RELEVE.xlsx --template ./MODELE.xlsx --output-dir ./comptes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		opts := report.Options{
			SourcePath:   generateSource,
			Sheet:        stringFlagOrConfig(cmd, "sheet", generateSheet, cfg.Report.Sheet),
			TemplatePath: stringFlagOrConfig(cmd, "template", generateTemplate, cfg.Report.Template),
			OutputDir:    stringFlagOrConfig(cmd, "output-dir", generateOutputDir, cfg.Report.OutputDir),
			StartIndex:   intFlagOrConfig(cmd, "start", generateStart, cfg.Report.StartIndex),
			Count:        intFlagOrConfig(cmd, "count", generateCount, cfg.Report.Count),
			Supplement: report.SupplementOptions{
				Sheets:           stringsFlagOrConfig(cmd, "supplement", generateSupplements, cfg.Report.Supplements),
				Column:           cfg.Report.SupplementColumn,
				RegeneratedSheet: cfg.Report.RegeneratedSheet,
				WideSheet:        cfg.Report.WideSheet,
			},
			Progress: progress.Logger(logger),
			Logger:   logger,
		}
		if strings.TrimSpace(opts.TemplatePath) == "" {
			return fmt.Errorf("no template given (use --template or report.template)")
		}
		if strings.TrimSpace(opts.OutputDir) == "" {
			return fmt.Errorf("no output directory given (use --output-dir or report.output_dir)")
		}
		if !generateQuiet {
			opts.Progress = progress.Multi(progress.Writer(os.Stdout), opts.Progress)
		}

		store, err := storage.OpenSQLite(stringFlagOrConfig(cmd, "db", generateDBPath, cfg.Storage.DB))
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.CreateRun(storage.RunKindGenerate, generateSource)
		if err != nil {
			return err
		}

		ctx, stop := interruptContext(cmd)
		defer stop()

		summary, runErr := report.Run(ctx, opts)
		if summary != nil {
			if _, err := store.InsertBlockOutcomes(run.ID, blockRecords(summary.Outcomes)); err != nil {
				logger.Error("journal block outcomes", zap.String("run", run.ID), zap.Error(err))
			}
		}
		detail := ""
		if summary != nil {
			detail = fmt.Sprintf("%d generated, %d failed", summary.Generated(), summary.Failed())
		}
		if err := store.FinishRun(run.ID, runStatus(runErr), detail); err != nil {
			logger.Error("journal run status", zap.String("run", run.ID), zap.Error(err))
		}
		if runErr != nil {
			return runErr
		}

		if summary.BlocksFound == 0 {
			fmt.Println("No date rows found in the source sheet. Nothing to generate.")
			return nil
		}
		for _, outcome := range summary.Outcomes {
			if outcome.Succeeded() {
				fmt.Printf("OK     %-9s %s -> %s\n", outcome.Block, outcome.Partner, outcome.Path)
				continue
			}
			fmt.Printf("FAILED %-9s %s: %v\n", outcome.Block, outcome.Partner, outcome.Err)
		}
		fmt.Printf("Generate completed. Run: %s, Rows scanned: %d, Blocks found: %d, Selected: %d, Generated: %d, Failed: %d, Dates: %s\n",
			run.ID,
			summary.RowsScanned,
			summary.BlocksFound,
			len(summary.Outcomes),
			summary.Generated(),
			summary.Failed(),
			summary.DateRangeLabel,
		)
		return nil
	},
}

func blockRecords(outcomes []report.BlockOutcome) []storage.BlockRecord {
	records := make([]storage.BlockRecord, 0, len(outcomes))
	for _, outcome := range outcomes {
		record := storage.BlockRecord{
			Position: outcome.Index,
			StartRow: outcome.Block.StartRow,
			EndRow:   outcome.Block.EndRow,
			Partner:  outcome.Partner,
			Path:     outcome.Path,
		}
		if outcome.Err != nil {
			record.Error = outcome.Err.Error()
		}
		records = append(records, record)
	}
	return records
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateSource, "source", "s", "", "Source workbook with the partner blocks")
	generateCmd.Flags().StringVar(&generateSheet, "sheet", "", "Source sheet name (default: report.sheet, else the first sheet)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Template workbook (default: report.template)")
	generateCmd.Flags().StringVarP(&generateOutputDir, "output-dir", "o", "", "Directory receiving the reports (default: report.output_dir)")
	generateCmd.Flags().IntVar(&generateStart, "start", report.DefaultStartIndex, "Zero-based index of the first block to generate")
	generateCmd.Flags().IntVar(&generateCount, "count", report.DefaultCount, "Number of blocks to generate")
	generateCmd.Flags().StringArrayVar(&generateSupplements, "supplement", nil, "Supplement sheet to filter per partner (repeatable, default: report.supplements)")
	generateCmd.Flags().StringVar(&generateDBPath, "db", "./comptesupport.db", "Path to the local SQLite journal")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Do not print progress lines")

	_ = generateCmd.MarkFlagRequired("source")
}

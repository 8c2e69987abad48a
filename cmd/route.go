package cmd

import (
	"fmt"
	"strings"

	"comptesupport/config"
	"comptesupport/directory"
	"comptesupport/output"
	"comptesupport/router"
	"comptesupport/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	routeDir       string
	routeDirectory string
	routeFormat    string
	routeOutput    string
	routeDBPath    string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Match generated reports to partners of the directory",
	Long: `List the files of the report folder (non-recursive) and attribute each one to at
most one partner of the directory.

File names and partner names are compared lowercased and without accents. A file
matches a partner when the full partner name, or else its parenthesized sigle,
appears in the file name as a whole word. The first matching partner in directory
order wins. Files without a match, and matches for partners without any address,
are listed but not routed.

The routing table is journaled for "comptesupport send" and can be exported with --output.`,
	Example: `
  # Route the configured output directory
  comptesupport route

  # Route another folder and export the table
  comptesupport route --dir ./comptes/janvier --output ./routage.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		dir := stringFlagOrConfig(cmd, "dir", routeDir, cfg.Report.OutputDir)
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("no report folder given (use --dir or report.output_dir)")
		}
		directoryPath := stringFlagOrConfig(cmd, "directory", routeDirectory, cfg.Directory.Path)
		if strings.TrimSpace(directoryPath) == "" {
			return fmt.Errorf("no partner directory given (use --directory or directory.path)")
		}

		var writer output.Writer
		if routeOutput != "" {
			writer, err = output.WriterForPath(routeOutput)
			if err != nil {
				return err
			}
		}

		parsed, err := directory.Load(directoryPath, routeFormat, logger)
		if err != nil {
			return err
		}
		files, err := router.ListFiles(dir)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(stringFlagOrConfig(cmd, "db", routeDBPath, cfg.Storage.DB))
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.CreateRun(storage.RunKindRoute, dir)
		if err != nil {
			return err
		}

		ctx, stop := interruptContext(cmd)
		defer stop()

		result, routeErr := router.Route(ctx, files, parsed.Partners, logger)
		if _, err := store.InsertRoutes(run.ID, result.Routes); err != nil {
			logger.Error("journal routes", zap.String("run", run.ID), zap.Error(err))
		}
		detail := fmt.Sprintf("%d routed, %d unmatched, %d without email", len(result.Routes), len(result.Unmatched), len(result.NoEmail))
		if err := store.FinishRun(run.ID, runStatus(routeErr), detail); err != nil {
			logger.Error("journal run status", zap.String("run", run.ID), zap.Error(err))
		}
		if routeErr != nil {
			return routeErr
		}

		for _, route := range result.Routes {
			fmt.Printf("%s -> %s <%s>\n", route.FileName, route.PartnerName, strings.Join(route.RecipientEmails, ", "))
		}
		for _, name := range result.NoEmail {
			fmt.Printf("Warning: %s matches a partner without email address\n", name)
		}

		if writer != nil {
			if err := writer.Write(routeOutput, result.Routes); err != nil {
				return err
			}
			fmt.Printf("Routing table written to %s\n", routeOutput)
		}

		fmt.Printf("Route completed. Run: %s, Files: %d, Partners: %d, Routed: %d, Unmatched: %d, Without email: %d\n",
			run.ID,
			len(files),
			len(parsed.Partners),
			len(result.Routes),
			len(result.Unmatched),
			len(result.NoEmail),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().StringVar(&routeDir, "dir", "", "Folder with generated reports (default: report.output_dir)")
	routeCmd.Flags().StringVarP(&routeDirectory, "directory", "d", "", "Partner directory workbook (default: directory.path)")
	routeCmd.Flags().StringVarP(&routeFormat, "format", "f", "", "Directory format: csv|excel (optional, inferred from extension when omitted)")
	routeCmd.Flags().StringVarP(&routeOutput, "output", "o", "", "Export the routing table to a .csv or .xlsx file")
	routeCmd.Flags().StringVar(&routeDBPath, "db", "./comptesupport.db", "Path to the local SQLite journal")
}

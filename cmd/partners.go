package cmd

import (
	"fmt"
	"strings"

	"comptesupport/config"
	"comptesupport/directory"

	"github.com/spf13/cobra"
)

var (
	partnersDirectory string
	partnersFormat    string
)

var partnersCmd = &cobra.Command{
	Use:   "partners",
	Short: "Show the partners parsed from the directory workbook",
	Long: `Parse the partner directory and print every partner with its sigle and addresses.

The directory needs a "NOM DU PARTENAIRE" and an "ADRESSES" header within its first
10 rows. Rows without a name or without any email address are skipped; rows repeating
a name (case-insensitive) are merged.`,
	Example: `
  # Use directory.path from config
  comptesupport partners

  # Parse a CSV export
  comptesupport partners -d ./partenaires.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		path := stringFlagOrConfig(cmd, "directory", partnersDirectory, cfg.Directory.Path)
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("no partner directory given (use --directory or directory.path)")
		}

		result, err := directory.Load(path, partnersFormat, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, record := range result.Partners {
			sigle := "-"
			if record.HasSigle() {
				sigle = record.SearchableSigle
			}
			fmt.Fprintf(out, "%3d. %s [%s] %s\n", i+1, record.Name, sigle, strings.Join(record.Emails, ", "))
		}
		fmt.Fprintf(out, "Directory parsed. Partners: %d, Rows read: %d, Rows merged: %d, Rows skipped: %d\n",
			len(result.Partners),
			result.RowsRead,
			result.RowsMerged,
			result.RowsSkipped,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(partnersCmd)

	partnersCmd.Flags().StringVarP(&partnersDirectory, "directory", "d", "", "Partner directory workbook (default: directory.path)")
	partnersCmd.Flags().StringVarP(&partnersFormat, "format", "f", "", "Directory format: csv|excel (optional, inferred from extension when omitted)")
}

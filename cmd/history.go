package cmd

import (
	"fmt"
	"time"

	"comptesupport/config"
	"comptesupport/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	historyLimit  int
	historyDBPath string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled generate, route and send runs",
	Example: `
  # Show the 20 most recent runs
  comptesupport history

  # Show every run of another journal
  comptesupport history --limit 0 --db ./archive.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := historyDBPath
		if !cmd.Flags().Changed("db") && viper.GetString(config.KeyStorageDB) != "" {
			dbPath = viper.GetString(config.KeyStorageDB)
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Printf("No runs journaled in %s.\n", dbPath)
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %-8s  %-9s  %s  items=%d  %s  (%s)\n",
				run.StartedAt.Local().Format(time.DateTime),
				run.Kind,
				run.Status,
				run.ID,
				run.Items,
				run.Source,
				run.Detail,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().StringVar(&historyDBPath, "db", "./comptesupport.db", "Path to the local SQLite journal")
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"comptesupport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteJournal bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by comptesupport.

With --journal, the SQLite journal named by storage.db is deleted as well, which
forgets every journaled generate, route and send run.

If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  comptesupport config delete

  # Delete config and run journal
  comptesupport config delete --journal

  # Delete config at a custom path
  comptesupport --configFile ./custom-comptesupport.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		journalPath := ""
		if configDeleteJournal {
			journalPath = viper.GetString(config.KeyStorageDB)
		}
		removed, err := deleteConfigFiles(configPath, journalPath)
		if err != nil {
			return err
		}

		for _, path := range removed {
			fmt.Printf("Deleted: %s\n", path)
		}
		return nil
	},
}

// deleteConfigFiles removes the config file and, when journalPath is set, the
// run journal. A missing journal is not an error.
func deleteConfigFiles(configPath, journalPath string) ([]string, error) {
	if err := os.Remove(configPath); err != nil {
		return nil, fmt.Errorf("error deleting configuration file: %w", err)
	}
	removed := []string{configPath}

	if strings.TrimSpace(journalPath) == "" {
		return removed, nil
	}
	if err := os.Remove(journalPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return removed, nil
		}
		return removed, fmt.Errorf("error deleting journal %s: %w", journalPath, err)
	}
	return append(removed, journalPath), nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVar(&configDeleteJournal, "journal", false, "Also delete the SQLite journal (storage.db)")
}

package cmd

import (
	"fmt"

	"comptesupport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.comptesupport.yaml
  comptesupport config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig()
	},
}

func saveDefaultConfig() error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if created {
		cfg, err := config.ValidateYAMLContent([]byte(config.ExampleYAML()))
		if err != nil {
			return fmt.Errorf("example config is invalid: %w", err)
		}
		fmt.Printf("New config file created at: %s\n", configPath)
		fmt.Printf("Reports: template %s, output directory %s, %d block(s) per run\n", cfg.Report.Template, cfg.Report.OutputDir, cfg.Report.Count)
		for _, line := range supplementSummary(cfg.Report) {
			fmt.Println(line)
		}
		fmt.Println("Adjust report.template, report.output_dir and directory.path before running generate or route.")
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}

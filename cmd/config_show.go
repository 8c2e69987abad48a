package cmd

import (
	"fmt"
	"strings"

	"comptesupport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The mail password
is never printed.`,
	Example: `
  # Show active configuration
  comptesupport config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		for _, line := range describeConfig(cfg) {
			fmt.Println(line)
		}
	},
}

func describeConfig(cfg *config.Config) []string {
	password := ""
	if cfg.Mail.Password != "" {
		password = "********"
	}
	return []string{
		fmt.Sprintf("%s: %s", config.KeyReportTemplate, cfg.Report.Template),
		fmt.Sprintf("%s: %s", config.KeyReportOutputDir, cfg.Report.OutputDir),
		fmt.Sprintf("%s: %s", config.KeyReportSheet, cfg.Report.Sheet),
		fmt.Sprintf("%s: %d", config.KeyReportStartIndex, cfg.Report.StartIndex),
		fmt.Sprintf("%s: %d", config.KeyReportCount, cfg.Report.Count),
		fmt.Sprintf("%s: %s", config.KeyReportSupplements, strings.Join(cfg.Report.Supplements, ", ")),
		fmt.Sprintf("%s: %s", config.KeyReportSupplementColumn, cfg.Report.SupplementColumn),
		fmt.Sprintf("%s: %s", config.KeyReportRegeneratedSheet, cfg.Report.RegeneratedSheet),
		fmt.Sprintf("%s: %s", config.KeyReportWideSheet, cfg.Report.WideSheet),
		fmt.Sprintf("%s: %s", config.KeyDirectoryPath, cfg.Directory.Path),
		fmt.Sprintf("%s: %s", config.KeyMailHost, cfg.Mail.Host),
		fmt.Sprintf("%s: %d", config.KeyMailPort, cfg.Mail.Port),
		fmt.Sprintf("%s: %s", config.KeyMailUsername, cfg.Mail.Username),
		fmt.Sprintf("%s: %s", config.KeyMailPassword, password),
		fmt.Sprintf("%s: %s", config.KeyMailFrom, cfg.Mail.From),
		fmt.Sprintf("%s: %s", config.KeyMailFromName, cfg.Mail.FromName),
		fmt.Sprintf("%s: %q", config.KeyMailSubject, cfg.Mail.Subject),
		fmt.Sprintf("%s: %q", config.KeyMailBody, cfg.Mail.Body),
		fmt.Sprintf("%s: %s", config.KeyMailCC, strings.Join(cfg.Mail.CC, ", ")),
		fmt.Sprintf("%s: %s", config.KeyMailBCC, strings.Join(cfg.Mail.BCC, ", ")),
		fmt.Sprintf("%s: %s", config.KeyStorageDB, cfg.Storage.DB),
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

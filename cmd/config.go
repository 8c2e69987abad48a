package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage comptesupport configuration file values.",
	Long: `Create, edit, display, and delete the comptesupport configuration file.

The configuration stores:
- report.template / output_dir / sheet / start_index / count
- report.supplements / supplement_column / regenerated_sheet / wide_sheet
- directory.path
- mail.host / port / username / password / from / from_name / subject / body / cc / bcc
- storage.db

mail.password may be left empty and provided through .env or MAIL_PASSWORD.`,
	Example: `
  # Create default config in $HOME/.comptesupport.yaml
  comptesupport config create

  # Show active config and source file
  comptesupport config show

  # Open active config in editor (creates example if missing)
  comptesupport config edit

  # Delete active config file
  comptesupport config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

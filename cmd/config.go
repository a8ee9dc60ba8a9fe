package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage paysheet configuration file values.",
	Long: `Create and display the paysheet configuration file.

The configuration stores the pay-period table, the role policy table, and
check options:
- periods.<name>.end_month / end_day
- positions.<name>.required / forbidden
- import.header_row / import.year
- check.duration_tolerance_hours / check.use_corrected_end_for_mismatch`,
	Example: `
  # Create default config in $HOME/.paysheet.yaml
  paysheet config create

  # Show active config and source file
  paysheet config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"paysheet/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paysheet",
	Short: "Check, import, and export manually filled payroll timesheets.",
	Long: `
**********************************************
*                PAYSHEET                    *
**********************************************

This CLI reads payroll timesheet workbooks (one sheet per pay period,
semi-free-form manual entry), normalizes each row, runs the validation rule
catalog, persists the ledger in a local SQLite database, and exports the
normalized entries, the consolidated master workbook, and the error report.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls (one sheet per configured pay period)
- CSV: .csv (one pay period per file, named via --period)
`,
	Example: `
  # Create configuration file
  paysheet config create

  # Check submitted workbooks and print the error report
  paysheet check -i CAL_PAYROLL_Smith_Jane_Fall2019.xlsx

  # Check against a provider/student roster
  paysheet check -i ./data/*.xlsx --roster ./matches.csv

  # Import into the local ledger (unchanged files are skipped)
  paysheet import -i ./data/CAL_PAYROLL_Smith_Jane_Fall2019.xlsx --db ./paysheet.db

  # Export the normalized ledger
  paysheet export --mode raw --output ./ledger.csv

  # Export the master workbook grouped by provider
  paysheet export --mode provider --output ./tutor_by_date.xlsx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.paysheet.yaml, then ./.paysheet.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "check", "import":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".paysheet" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".paysheet")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: paysheet config create")
	}
}

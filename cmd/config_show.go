package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"paysheet/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  paysheet config show
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
		fmt.Printf("import.header_row: %d\n", cfg.Import.HeaderRow)
		fmt.Printf("import.year: %d\n", cfg.Import.Year)
		fmt.Printf("check.duration_tolerance_hours: %g\n", cfg.Check.DurationToleranceHours)
		fmt.Printf("check.use_corrected_end_for_mismatch: %t\n", cfg.Check.UseCorrectedEndForMismatch)

		periodNames := make([]string, 0, len(cfg.Periods))
		for name := range cfg.Periods {
			periodNames = append(periodNames, name)
		}
		sort.Strings(periodNames)
		fmt.Printf("periods: %d\n", len(periodNames))
		for _, name := range periodNames {
			period := cfg.Periods[name]
			fmt.Printf("periods[%s]: ends %d/%d\n", name, period.EndMonth, period.EndDay)
		}

		positionNames := make([]string, 0, len(cfg.Positions))
		for name := range cfg.Positions {
			positionNames = append(positionNames, name)
		}
		sort.Strings(positionNames)
		fmt.Printf("positions: %d\n", len(positionNames))
		for _, name := range positionNames {
			position := cfg.Positions[name]
			fmt.Printf("positions[%s].required: %s\n", name, strings.Join(position.Required, ", "))
			fmt.Printf("positions[%s].forbidden: %s\n", name, strings.Join(position.Forbidden, ", "))
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

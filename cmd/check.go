package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"paysheet/check"
	"paysheet/config"
	"paysheet/importer"
	"paysheet/internal/roster"
	"paysheet/output"
)

var (
	checkInputs     []string
	checkFormat     string
	checkPeriodName string
	checkProvider   string
	checkYear       int
	checkRosterPath string
	checkReportPath string
	checkCSVPath    string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate timesheet workbooks and print the error report",
	Long: `Read timesheet sources, normalize every row, run the validation rule
catalog, and render the findings as a per-file, per-period error report.

Provider name and reporting year are derived from the
<dept>_PAYROLL_<Last>_<First>_<term> filename convention; --provider and
--year override them. A roster CSV (provider, student last, student first)
enables the provider/student pairing rule.

Nothing is persisted; use "paysheet import" to fill the ledger database.`,
	Example: `
  # Check one submitted workbook
  paysheet check -i CAL_PAYROLL_Smith_Jane_Fall2019.xlsx

  # Check several workbooks against a roster, write the report to a file
  paysheet check -i a.xlsx -i b.xlsx --roster matches.csv --report errors.txt

  # Check a single-period CSV export
  paysheet check -i period1.csv --format csv --period "Pay Period 1" --provider "Jane Smith" --year 2019

  # Also dump findings as CSV
  paysheet check -i CAL_PAYROLL_Smith_Jane_Fall2019.xlsx --findings-csv findings.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		var matches *roster.Roster
		if checkRosterPath != "" {
			matches, err = roster.Load(checkRosterPath)
			if err != nil {
				return err
			}
		}

		result, err := importer.Run(checkInputs, cfg, importer.RunOptions{
			Format:     checkFormat,
			PeriodName: checkPeriodName,
			Provider:   checkProvider,
			Year:       checkYear,
			Matches:    matches,
		})
		if err != nil {
			return err
		}

		reportTarget := os.Stdout
		if checkReportPath != "" {
			file, err := os.Create(checkReportPath)
			if err != nil {
				return fmt.Errorf("create report %s: %w", checkReportPath, err)
			}
			defer file.Close()
			reportTarget = file
		}
		if err := output.WriteTextReport(reportTarget, result.Findings); err != nil {
			return err
		}

		if checkCSVPath != "" {
			if err := output.WriteFindingsCSV(checkCSVPath, result.Findings); err != nil {
				return err
			}
		}

		comments, warnings, criticals := check.CountBySeverity(result.Findings)
		fmt.Printf("Check completed. Files: %d, Rows read: %d, Rows kept: %d, Comments: %d, Warnings: %d, Criticals: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsKept,
			comments,
			warnings,
			criticals,
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringArrayVarP(&checkInputs, "input", "i", nil, "Input file path (repeatable)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	checkCmd.Flags().StringVar(&checkPeriodName, "period", "", "Pay period name for CSV sources")
	checkCmd.Flags().StringVar(&checkProvider, "provider", "", "Provider name override (default: derived from filename)")
	checkCmd.Flags().IntVar(&checkYear, "year", 0, "Reporting year override (default: derived from filename)")
	checkCmd.Flags().StringVar(&checkRosterPath, "roster", "", "Roster CSV of (provider, student last, student first) pairs")
	checkCmd.Flags().StringVar(&checkReportPath, "report", "", "Write the text report to this file instead of stdout")
	checkCmd.Flags().StringVar(&checkCSVPath, "findings-csv", "", "Also write findings as CSV to this file")

	_ = checkCmd.MarkFlagRequired("input")
}

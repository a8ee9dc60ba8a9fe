package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"paysheet/check"
	"paysheet/config"
	"paysheet/importer"
	"paysheet/internal/roster"
	"paysheet/storage"
)

var (
	importInputs     []string
	importFormat     string
	importPeriodName string
	importProvider   string
	importYear       int
	importRosterPath string
	importDBPath     string
	importForce      bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import timesheet sources into the local SQLite ledger",
	Long: `Read timesheet sources, normalize and validate every row, and persist
entries and findings in SQLite.

Each source file is fingerprinted by size and modification time. A file whose
fingerprint matches the stored one is skipped; a changed file replaces all of
its previously stored entries and findings, so the ledger never disagrees
with a fresh parse. Use --force to re-import unchanged files.`,
	Example: `
  # Import one workbook
  paysheet import -i ./data/CAL_PAYROLL_Smith_Jane_Fall2019.xlsx --db ./paysheet.db

  # Import several workbooks with a roster
  paysheet import -i a.xlsx -i b.xlsx --roster matches.csv --db ./paysheet.db

  # Re-import even if unchanged
  paysheet import -i ./data/CAL_PAYROLL_Smith_Jane_Fall2019.xlsx --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		var matches *roster.Roster
		if importRosterPath != "" {
			matches, err = roster.Load(importRosterPath)
			if err != nil {
				return err
			}
		}

		store, err := storage.OpenSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		options := importer.RunOptions{
			Format:     importFormat,
			PeriodName: importPeriodName,
			Provider:   importProvider,
			Year:       importYear,
			Matches:    matches,
		}

		filesImported := 0
		filesSkipped := 0
		rowsPersisted := 0
		totalFindings := 0

		for _, path := range importInputs {
			fingerprint, err := storage.Fingerprint(path)
			if err != nil {
				return err
			}

			if !importForce {
				unchanged, err := store.SourceUnchanged(fingerprint)
				if err != nil {
					return err
				}
				if unchanged {
					filesSkipped++
					continue
				}
			}

			result, err := importer.Run([]string{path}, cfg, options)
			if err != nil {
				return err
			}

			inserted, err := store.ReplaceSource(fingerprint, result.Entries, result.Parsed, result.Findings)
			if err != nil {
				return err
			}

			filesImported++
			rowsPersisted += inserted
			totalFindings += len(result.Findings)
		}

		fmt.Printf("Import completed. Files imported: %d, Files unchanged (skipped): %d, Rows persisted: %d, Findings: %d\n",
			filesImported,
			filesSkipped,
			rowsPersisted,
			totalFindings,
		)

		if totalFindings > 0 {
			findings, err := store.ListFindings()
			if err != nil {
				return err
			}
			comments, warnings, criticals := check.CountBySeverity(findings)
			fmt.Printf("Ledger findings by severity: comments: %d, warnings: %d, criticals: %d\n", comments, warnings, criticals)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importPeriodName, "period", "", "Pay period name for CSV sources")
	importCmd.Flags().StringVar(&importProvider, "provider", "", "Provider name override (default: derived from filename)")
	importCmd.Flags().IntVar(&importYear, "year", 0, "Reporting year override (default: derived from filename)")
	importCmd.Flags().StringVar(&importRosterPath, "roster", "", "Roster CSV of (provider, student last, student first) pairs")
	importCmd.Flags().StringVar(&importDBPath, "db", "./paysheet.db", "Path to local SQLite database")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Re-import files whose fingerprint is unchanged")

	_ = importCmd.MarkFlagRequired("input")
}

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"paysheet/output"
	"paysheet/storage"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
	exportRoles  []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the normalized ledger or master workbook from SQLite",
	Long: `Export stored entries from SQLite.

Modes:
- raw: every normalized entry with its parsed view (CSV or Excel)
- findings: the stored findings dump (CSV)
- provider: master workbook, one sheet per provider, sorted by date and start time
- student: master workbook, one sheet per student, sorted by date and start time

The master workbook modes keep only payable roles (--roles) and always write
Excel. Output format for raw mode can be forced via --format or inferred from
the --output extension.`,
	Example: `
  # Export raw rows to CSV
  paysheet export --mode raw --db ./paysheet.db --output ./ledger.csv

  # Export raw rows to Excel
  paysheet export --mode raw --db ./paysheet.db --output ./ledger.xlsx

  # Export stored findings
  paysheet export --mode findings --db ./paysheet.db --output ./findings.csv

  # Master workbook grouped by provider
  paysheet export --mode provider --db ./paysheet.db --output ./tutor_by_date.xlsx

  # Master workbook grouped by student, tutors only
  paysheet export --mode student --roles tutor --output ./student_by_date.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(exportDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			format := exportFormat
			if strings.TrimSpace(format) == "" {
				format = detectExportFormat(exportOutput)
			}
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			entries, parsed, err := store.ListEntries()
			if err != nil {
				return err
			}
			if err := writer.Write(exportOutput, entries, parsed); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(entries), format, exportOutput)
		case "findings":
			findings, err := store.ListFindings()
			if err != nil {
				return err
			}
			if err := output.WriteFindingsCSV(exportOutput, findings); err != nil {
				return err
			}
			fmt.Printf("Export completed. Findings: %d, File: %s\n", len(findings), exportOutput)
		case "provider", "student":
			entries, parsed, err := store.ListEntries()
			if err != nil {
				return err
			}
			rows := output.BuildMasterRows(entries, parsed, exportRoles)
			groupBy := output.GroupByProvider
			if mode == "student" {
				groupBy = output.GroupByStudent
			}
			if err := output.WriteMasterWorkbook(exportOutput, rows, groupBy); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: %s, File: %s\n", len(rows), mode, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, findings, provider, student)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|findings|provider|student")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format for raw mode: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "./paysheet.db", "Path to local SQLite database")
	exportCmd.Flags().StringSliceVar(&exportRoles, "roles", []string{"tutor", "learning strategist"}, "Payable roles kept in master workbook modes")

	_ = exportCmd.MarkFlagRequired("output")
}

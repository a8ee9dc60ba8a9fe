package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"paysheet/timesheet"
)

// WriteTextReport renders findings as the reviewer-facing error report:
// one block per source file, findings grouped by pay period inside it, each
// line addressable back to the original sheet row. Findings keep the order
// they were produced in, so the report is reproducible run to run.
func WriteTextReport(w io.Writer, findings []timesheet.Finding) error {
	currentSource := ""
	currentPeriod := ""
	started := false

	for _, finding := range findings {
		if !started || finding.SourceFile != currentSource {
			if started {
				if _, err := fmt.Fprintln(w); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
			}
			if _, err := fmt.Fprintf(w, "%s\n", finding.SourceFile); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			currentSource = finding.SourceFile
			currentPeriod = ""
			started = true
		}

		// Batch-level findings carry no period; they sit directly under
		// the filename.
		if finding.PeriodName == "" {
			if _, err := fmt.Fprintf(w, "\t[%s] %s\n", finding.Severity, finding.Message); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			continue
		}

		if finding.PeriodName != currentPeriod {
			if _, err := fmt.Fprintf(w, "\t%s\n", finding.PeriodName); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			currentPeriod = finding.PeriodName
		}

		if _, err := fmt.Fprintf(w, "\t\tLine %d [%s]: %s\n", finding.SheetRow, finding.Severity, finding.Message); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	return nil
}

// WriteFindingsCSV writes the flat findings dump for spreadsheet review.
func WriteFindingsCSV(path string, findings []timesheet.Finding) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create findings output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Source File", "Period", "Sheet Row", "Provider", "Severity", "Message"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write findings headers: %w", err)
	}

	for _, finding := range findings {
		row := []string{
			finding.SourceFile,
			finding.PeriodName,
			strconv.Itoa(finding.SheetRow),
			finding.Provider,
			finding.Severity.String(),
			finding.Message,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write findings row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush findings output: %w", err)
	}

	return nil
}

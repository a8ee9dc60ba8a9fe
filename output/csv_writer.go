package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"paysheet/timesheet"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, entries []timesheet.Entry, parsed []timesheet.ParsedEntry) error {
	if len(entries) != len(parsed) {
		return fmt.Errorf("entries and parsed views differ in length: %d vs %d", len(entries), len(parsed))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(ledgerHeaders()); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for i, entry := range entries {
		if err := writer.Write(ledgerRow(entry, parsed[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

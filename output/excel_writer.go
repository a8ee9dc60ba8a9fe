package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"paysheet/timesheet"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, entries []timesheet.Entry, parsed []timesheet.ParsedEntry) error {
	if len(entries) != len(parsed) {
		return fmt.Errorf("entries and parsed views differ in length: %d vs %d", len(entries), len(parsed))
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for col, header := range ledgerHeaders() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, entry := range entries {
		rowNumber := i + 2
		for col, value := range ledgerRow(entry, parsed[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNumber)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"paysheet/timesheet"
)

// ExcelReader reads pay-period sheets out of a timesheet workbook. Only
// sheets whose name appears in the period table are read; cover sheets,
// instructions, and stray tabs are ignored.
type ExcelReader struct {
	// HeaderRow is the 1-based sheet row holding the column headings.
	// Submitted workbooks put a title banner in row 1 and headings in row 2.
	HeaderRow int
}

func (r *ExcelReader) Read(path string, periods map[string]timesheet.Period) ([]PeriodGroup, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	headerRow := r.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}

	groups := make([]PeriodGroup, 0, len(periods))
	for _, sheetName := range file.GetSheetList() {
		if _, ok := periods[timesheet.PeriodKey(sheetName)]; !ok {
			continue
		}

		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
		}
		if len(rows) < headerRow {
			groups = append(groups, PeriodGroup{Name: sheetName})
			continue
		}

		headers := rows[headerRow-1]
		normalizedHeaders := make([]string, len(headers))
		for i, header := range headers {
			normalizedHeaders[i] = normalizeHeader(header)
		}

		records := make([]Record, 0, len(rows)-headerRow)
		for offset, row := range rows[headerRow:] {
			values := make(map[string]string, len(normalizedHeaders))
			for col := range normalizedHeaders {
				if col < len(row) {
					values[normalizedHeaders[col]] = row[col]
				} else {
					values[normalizedHeaders[col]] = ""
				}
			}

			records = append(records, Record{SheetRow: headerRow + 1 + offset, Values: values})
		}

		groups = append(groups, PeriodGroup{Name: sheetName, Records: records})
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("workbook %s has no pay period sheets", path)
	}

	return groups, nil
}

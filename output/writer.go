package output

import (
	"fmt"
	"strconv"
	"strings"

	"paysheet/timesheet"
)

// Writer emits the normalized ledger: raw cells plus the parsed view, one
// row per entry.
type Writer interface {
	Write(path string, entries []timesheet.Entry, parsed []timesheet.ParsedEntry) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

func ledgerHeaders() []string {
	return []string{
		"Provider", "Period", "Sheet Row",
		"Position", "Last Name", "First Name", "Class Tutored",
		"Month", "Day", "Start Time", "End Time", "Duration", "Notes",
		"Date", "Start", "End", "Computed Hours", "Declared Hours",
	}
}

func ledgerRow(entry timesheet.Entry, view timesheet.ParsedEntry) []string {
	date := ""
	if view.DateOK {
		date = view.Date.Format("2006-01-02")
	}
	start := ""
	if view.StartOK {
		start = view.Start.String()
	}
	end := ""
	if view.EndOK {
		end = view.End.String()
	}
	computed := ""
	if view.ComputedOK {
		computed = strconv.FormatFloat(view.ComputedHours, 'f', -1, 64)
	}
	declared := ""
	if view.DeclaredOK {
		declared = strconv.FormatFloat(view.DeclaredHours, 'f', -1, 64)
	}

	return []string{
		entry.Provider, entry.PeriodName, strconv.Itoa(entry.SheetRow),
		entry.Position, entry.LastName, entry.FirstName, entry.Class,
		entry.Month, entry.Day, entry.StartTime, entry.EndTime, entry.Duration, entry.Notes,
		date, start, end, computed, declared,
	}
}
